// Package model holds the documents that flow through the notification tables.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
)

// KeyAttribute is the partition key of every table.
const KeyAttribute = "id"

// ErrInvalidDocument marks a stored document that does not match its schema.
var ErrInvalidDocument = errors.New("invalid document")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Event is a document of the events table. It is written by the app backend,
// never by these functions.
type Event struct {
	ID          string `dynamodbav:"id" json:"id"`
	Title       string `dynamodbav:"title" json:"title"`
	Description string `dynamodbav:"description" json:"description"`
}

// Notification is a notification trigger document. Its creation is what makes
// the dispatcher send a push message.
type Notification struct {
	ID     string `dynamodbav:"id" json:"id"`
	UserID string `dynamodbav:"userId" json:"userId" validate:"required"`
	Title  string `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Body   string `dynamodbav:"body,omitempty" json:"body,omitempty"`
	// Route is the screen the mobile client opens when the notification is tapped.
	Route     string    `dynamodbav:"route,omitempty" json:"route,omitempty"`
	CreatedAt Timestamp `dynamodbav:"createdAt" json:"createdAt"`
}

// Timestamp is the write time of a document, stored as an RFC 3339 string.
// Triggers written by other producers may carry any shape here; values that
// are not RFC 3339 strings decode to the zero time instead of failing.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if t.IsZero() {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return &types.AttributeValueMemberS{Value: t.UTC().Format(time.RFC3339)}, nil
}

func (t *Timestamp) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	t.Time = time.Time{}
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		if parsed, err := time.Parse(time.RFC3339, s.Value); err == nil {
			t.Time = parsed.UTC()
		}
	}
	return nil
}

// User is a document of the users table. Only the device token is read here.
type User struct {
	ID       string `dynamodbav:"id" json:"id"`
	FCMToken string `dynamodbav:"fcmToken" json:"fcmToken"`
}

// Validate checks the struct against its validate tags and wraps failures
// in ErrInvalidDocument.
func Validate(doc any) error {
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidDocument, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
