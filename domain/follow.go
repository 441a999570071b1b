package domain

// FollowRelationship is a directed edge in the follow graph: followerId
// follows followingId. At most one edge exists per ordered pair.
type FollowRelationship struct {
	FollowerID  string `dynamodbav:"followerId" json:"followerId"`
	FollowingID string `dynamodbav:"followingId" json:"followingId"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}
