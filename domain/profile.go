package domain

// Table names for the three DynamoDB tables backing the service.
const (
	ProfilesTable = "Profiles"
	PostsTable    = "Posts"
	FollowsTable  = "Follows"
)

// Profile is a researcher's durable account record, keyed by userId. The
// follower/following counters are denormalized from the Follows table for
// cheap reads.
type Profile struct {
	UserID          string `dynamodbav:"userId" json:"userId"`
	FirstName       string `dynamodbav:"firstName" json:"firstName"`
	LastName        string `dynamodbav:"lastName" json:"lastName"`
	Email           string `dynamodbav:"email" json:"email"`
	Phone           string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Institution     string `dynamodbav:"institution,omitempty" json:"institution,omitempty"`
	FieldOfInterest string `dynamodbav:"fieldOfInterest,omitempty" json:"fieldOfInterest,omitempty"`
	Bio             string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       string `dynamodbav:"updatedAt" json:"updatedAt"`
	Following       int    `dynamodbav:"following" json:"following"`
	Followers       int    `dynamodbav:"followers" json:"followers"`
}

// DisplayName is the "First Last" string the feed shows for an author.
func (p *Profile) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// ProfileUpdate is the allow-list of fields a partial profile update may
// touch. Nil fields are left untouched; updatedAt is always refreshed.
type ProfileUpdate struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Institution     *string `json:"institution,omitempty"`
	FieldOfInterest *string `json:"fieldOfInterest,omitempty"`
	Bio             *string `json:"bio,omitempty"`
}
