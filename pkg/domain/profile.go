package domain

// ProfileMetrics mirrors the public_metrics block of the X API.
type ProfileMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
	LikeCount      int `json:"like_count,omitempty"`
}

// Profile is the public social profile returned by the profile endpoint.
type Profile struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Username        string          `json:"username"`
	Verified        bool            `json:"verified"`
	ProfileImageURL string          `json:"profile_image_url"`
	Metrics         *ProfileMetrics `json:"metrics"`
}
