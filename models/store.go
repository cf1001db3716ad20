package models

import "strings"

// ActivityRecord is one daily counter item. Counters share a partition
// per (group, day); the user lives in the sort key.
type ActivityRecord struct {
	PK    string `dynamodbav:"pk" json:"pk"`
	SK    string `dynamodbav:"sk" json:"sk"`
	Count int    `dynamodbav:"count" json:"count"`
}

// ProfileRecord is one cached display name, partitioned per group
type ProfileRecord struct {
	PK          string `dynamodbav:"pk" json:"pk"`
	SK          string `dynamodbav:"sk" json:"sk"`
	DisplayName string `dynamodbav:"displayName" json:"displayName"`
}

// UserCount pairs a user with one day's message count
type UserCount struct {
	UserID string `json:"userId"`
	Count  int    `json:"count"`
}

// ProfileEntry is a cached display name as the core sees it
type ProfileEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

const (
	countKeyPrefix   = "madi#"
	profileKeyPrefix = "profile#"
	userKeyPrefix    = "user#"
)

// CountPK builds the counter partition key for a group and a day
func CountPK(groupID, date string) string {
	return countKeyPrefix + groupID + "#" + date
}

// ProfilePK builds the profile-cache partition key for a group
func ProfilePK(groupID string) string {
	return profileKeyPrefix + groupID
}

// UserSK builds the per-user sort key shared by both item kinds
func UserSK(userID string) string {
	return userKeyPrefix + userID
}

// UserIDFromSK recovers the user id from a sort key
func UserIDFromSK(sk string) string {
	return strings.TrimPrefix(sk, userKeyPrefix)
}
