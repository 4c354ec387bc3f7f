package linkedin

// Wire types for the subset of LinkedIn REST responses the pipeline reads.

type userInfoResponse struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

type shareCreatedResponse struct {
	ID       string `json:"id"`
	Activity string `json:"activity"`
}

type registerUploadResponse struct {
	Value struct {
		Asset           string `json:"asset"`
		UploadMechanism map[string]struct {
			UploadURL string            `json:"uploadUrl"`
			Headers   map[string]string `json:"headers"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

type socialActionsResponse struct {
	Results map[string]socialActionsEntry `json:"results"`
}

type socialActionsEntry struct {
	LikesSummary struct {
		TotalLikes int64 `json:"totalLikes"`
	} `json:"likesSummary"`
	CommentsSummary struct {
		AggregatedTotalComments int64 `json:"aggregatedTotalComments"`
		TotalFirstLevelComments int64 `json:"totalFirstLevelComments"`
	} `json:"commentsSummary"`
}

type orgShareStatisticsResponse struct {
	Elements []orgShareStatisticsElement `json:"elements"`
}

type orgShareStatisticsElement struct {
	Share                string `json:"share"`
	UgcPost              string `json:"ugcPost"`
	TotalShareStatistics struct {
		ImpressionCount        int64   `json:"impressionCount"`
		UniqueImpressionsCount int64   `json:"uniqueImpressionsCount"`
		ClickCount             int64   `json:"clickCount"`
		LikeCount              int64   `json:"likeCount"`
		CommentCount           int64   `json:"commentCount"`
		ShareCount             int64   `json:"shareCount"`
		Engagement             float64 `json:"engagement"`
	} `json:"totalShareStatistics"`
}

type organizationAclsResponse struct {
	Elements []struct {
		Organization       string `json:"organization"`
		OrganizationTarget string `json:"organizationalTarget"`
		Role               string `json:"role"`
		State              string `json:"state"`
	} `json:"elements"`
}
