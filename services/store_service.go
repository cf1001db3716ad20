package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"madibot_server/models"
	"madibot_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store is the contract the bot's core has with its counter and
// profile-cache storage. StoreService implements it on DynamoDB; tests
// substitute an in-memory fake.
type Store interface {
	IncrementDailyCount(ctx context.Context, groupID, userID, date string) error
	GetDailyCount(ctx context.Context, groupID, userID, date string) (int, error)
	GetAllCountsForGroupDate(ctx context.Context, groupID, date string) ([]models.UserCount, error)
	SetProfile(ctx context.Context, groupID, userID, displayName string) error
	GetProfile(ctx context.Context, groupID, userID string) (*models.ProfileEntry, error)
	SearchProfilesByNameSubstring(ctx context.Context, groupID, query string) ([]models.ProfileEntry, error)
}

// StoreService persists daily message counters and the display-name
// cache in a single DynamoDB table
type StoreService struct {
	Dynamo DynamoAPI
	Table  string
}

func countKey(groupID, userID, date string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: models.CountPK(groupID, date)},
		"sk": &types.AttributeValueMemberS{Value: models.UserSK(userID)},
	}
}

func profileKey(groupID, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: models.ProfilePK(groupID)},
		"sk": &types.AttributeValueMemberS{Value: models.UserSK(userID)},
	}
}

// IncrementDailyCount atomically bumps the user's counter for the day.
// ADD creates the item on first use, so absent and zero look the same.
func (s *StoreService) IncrementDailyCount(ctx context.Context, groupID, userID, date string) error {
	_, err := s.Dynamo.UpdateItem(ctx, s.Table, "ADD #c :one",
		countKey(groupID, userID, date),
		map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		map[string]string{"#c": "count"},
	)
	if err != nil {
		return fmt.Errorf("failed to increment daily count: %w", err)
	}
	return nil
}

// GetDailyCount reads one user's count for the day; a missing item is 0
func (s *StoreService) GetDailyCount(ctx context.Context, groupID, userID, date string) (int, error) {
	item, err := s.Dynamo.GetItem(ctx, s.Table, countKey(groupID, userID, date))
	if errors.Is(err, ErrItemNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get daily count: %w", err)
	}
	return utils.ExtractNumber(item, "count"), nil
}

// GetAllCountsForGroupDate lists every counter in the group's partition
// for the day
func (s *StoreService) GetAllCountsForGroupDate(ctx context.Context, groupID, date string) ([]models.UserCount, error) {
	items, err := s.Dynamo.QueryAllPages(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.CountPK(groupID, date)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list counts: %w", err)
	}

	counts := make([]models.UserCount, 0, len(items))
	for _, item := range items {
		counts = append(counts, models.UserCount{
			UserID: models.UserIDFromSK(utils.ExtractString(item, "sk")),
			Count:  utils.ExtractNumber(item, "count"),
		})
	}
	return counts, nil
}

// SetProfile caches a display name, overwriting any previous entry
// (last writer wins). An empty name is stored as the unknown sentinel.
func (s *StoreService) SetProfile(ctx context.Context, groupID, userID, displayName string) error {
	if displayName == "" {
		displayName = models.UnknownName
	}
	record := models.ProfileRecord{
		PK:          models.ProfilePK(groupID),
		SK:          models.UserSK(userID),
		DisplayName: displayName,
	}
	if err := s.Dynamo.PutItem(ctx, s.Table, record); err != nil {
		log.Printf("❌ Failed to cache profile for %s/%s: %v", groupID, userID, err)
		return fmt.Errorf("failed to set profile: %w", err)
	}
	return nil
}

// GetProfile reads a cached display name; nil (no error) on a cache miss
func (s *StoreService) GetProfile(ctx context.Context, groupID, userID string) (*models.ProfileEntry, error) {
	item, err := s.Dynamo.GetItem(ctx, s.Table, profileKey(groupID, userID))
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	name := utils.ExtractString(item, "displayName")
	if name == "" {
		name = models.UnknownName
	}
	return &models.ProfileEntry{UserID: userID, DisplayName: name}, nil
}

// SearchProfilesByNameSubstring lists the group's cached profiles whose
// display name contains the query, case-insensitively. The filter runs
// client side; the profile partition of one group stays small.
func (s *StoreService) SearchProfilesByNameSubstring(ctx context.Context, groupID, query string) ([]models.ProfileEntry, error) {
	items, err := s.Dynamo.QueryAllPages(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.ProfilePK(groupID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	q := strings.ToLower(query)
	var matches []models.ProfileEntry
	for _, item := range items {
		name := utils.ExtractString(item, "displayName")
		if name == "" {
			name = models.UnknownName
		}
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, models.ProfileEntry{
				UserID:      models.UserIDFromSK(utils.ExtractString(item, "sk")),
				DisplayName: name,
			})
		}
	}
	return matches, nil
}
