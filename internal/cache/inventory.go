package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix           = "user:%d"
	PostKeyPrefix           = "post:%d"
	ClinicKeyPrefix         = "clinic:%d"
	PractitionerKeyPrefix   = "practitioner:%d"
	RatingSummaryKeyPrefix  = "rating_summary:%s:%d"
	RatingSummariesWildcard = "rating_summary:*"
	PostsListKey            = "posts:list"
)

const (
	UserTTL          = 5 * time.Minute
	PostTTL          = 30 * time.Minute
	SubjectTTL       = 10 * time.Minute
	RatingSummaryTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ClinicKey(id uint) string {
	return fmt.Sprintf(ClinicKeyPrefix, id)
}

func PractitionerKey(id uint) string {
	return fmt.Sprintf(PractitionerKeyPrefix, id)
}

func RatingSummaryKey(subjectType string, subjectID uint) string {
	return fmt.Sprintf(RatingSummaryKeyPrefix, subjectType, subjectID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateRatingSummary(ctx context.Context, subjectType string, subjectID uint) {
	Invalidate(ctx, RatingSummaryKey(subjectType, subjectID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}
