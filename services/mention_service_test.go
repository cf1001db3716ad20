package services

import (
	"context"
	"reflect"
	"testing"

	"madibot_server/models"
)

func newMentionService(platform *fakePlatform, admins []string) *MentionService {
	return &MentionService{
		Profiles: &ProfileService{Store: newFakeStore(), Platform: platform},
		AdminIDs: admins,
	}
}

func groupConv(id string) models.ConversationRef {
	return models.ConversationRef{Kind: models.ConversationGroup, ID: id}
}

func TestBuildAdminMentionLineOffsets(t *testing.T) {
	platform := newFakePlatform()
	platform.names["C1|U1"] = "Alex"
	platform.names["C1|U2"] = "Bo"
	svc := newMentionService(platform, []string{"U1", "U2"})

	line, mention := svc.BuildAdminMentionLine(context.Background(), groupConv("C1"))

	if line != "( @Alex,@Bo )" {
		t.Errorf("line = %q, want %q", line, "( @Alex,@Bo )")
	}
	if mention == nil {
		t.Fatal("mention is nil, want two mentionees")
	}
	want := []models.Mentionee{
		{Index: 2, Length: 5, UserID: "U1"},
		{Index: 8, Length: 3, UserID: "U2"},
	}
	if !reflect.DeepEqual(mention.Mentionees, want) {
		t.Errorf("mentionees = %+v, want %+v", mention.Mentionees, want)
	}
}

func TestBuildAdminMentionLineNoResolvableAdmins(t *testing.T) {
	svc := newMentionService(newFakePlatform(), []string{"U1", "U2"})

	line, mention := svc.BuildAdminMentionLine(context.Background(), groupConv("C1"))

	if line != "(관리자)" {
		t.Errorf("line = %q, want %q", line, "(관리자)")
	}
	if mention != nil {
		t.Errorf("mention = %+v, want nil", mention)
	}
}

func TestBuildAdminMentionLineSkipsAbsentAdmin(t *testing.T) {
	platform := newFakePlatform()
	platform.names["C1|U1"] = "Alex"
	// U2 is not in the conversation
	platform.names["C1|U3"] = "Bo"
	svc := newMentionService(platform, []string{"U1", "U2", "U3"})

	line, mention := svc.BuildAdminMentionLine(context.Background(), groupConv("C1"))

	if line != "( @Alex,@Bo )" {
		t.Errorf("line = %q, want %q", line, "( @Alex,@Bo )")
	}
	want := []models.Mentionee{
		{Index: 2, Length: 5, UserID: "U1"},
		{Index: 8, Length: 3, UserID: "U3"},
	}
	if mention == nil || !reflect.DeepEqual(mention.Mentionees, want) {
		t.Errorf("mentionees = %+v, want %+v", mention, want)
	}
}

func TestBuildAdminMentionLineKoreanNames(t *testing.T) {
	platform := newFakePlatform()
	platform.names["C1|U1"] = "다운"
	svc := newMentionService(platform, []string{"U1"})

	line, mention := svc.BuildAdminMentionLine(context.Background(), groupConv("C1"))

	if line != "( @다운 )" {
		t.Errorf("line = %q, want %q", line, "( @다운 )")
	}
	want := []models.Mentionee{{Index: 2, Length: 3, UserID: "U1"}}
	if mention == nil || !reflect.DeepEqual(mention.Mentionees, want) {
		t.Errorf("mentionees = %+v, want %+v", mention, want)
	}
}

// names outside the BMP take two UTF-16 units per rune; the offsets of
// later mentions must account for that
func TestBuildAdminMentionLineSurrogatePairNames(t *testing.T) {
	platform := newFakePlatform()
	platform.names["C1|U1"] = "😀왕"
	platform.names["C1|U2"] = "Bo"
	svc := newMentionService(platform, []string{"U1", "U2"})

	line, mention := svc.BuildAdminMentionLine(context.Background(), groupConv("C1"))

	if line != "( @😀왕,@Bo )" {
		t.Errorf("line = %q, want %q", line, "( @😀왕,@Bo )")
	}
	// "😀왕" is 3 UTF-16 units: "@😀왕" spans units 2-5, the comma sits
	// at 6 and the second '@' at 7
	want := []models.Mentionee{
		{Index: 2, Length: 4, UserID: "U1"},
		{Index: 7, Length: 3, UserID: "U2"},
	}
	if mention == nil || !reflect.DeepEqual(mention.Mentionees, want) {
		t.Errorf("mentionees = %+v, want %+v", mention, want)
	}
}
