package translate

import (
	"testing"
)

func TestParseReplyPlainArray(t *testing.T) {
	got, err := ParseReply(`[{"id": 1, "translation": "Xin chào"}, {"id": 2, "translation": "Tạm biệt"}]`)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if got[1] != "Xin chào" || got[2] != "Tạm biệt" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseReplyFencedWithProse(t *testing.T) {
	content := "Here are the translations:\n```json\n[{\"id\": 7, \"translation\": \"Được rồi\"}]\n```\nLet me know if you need more."
	got, err := ParseReply(content)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if got[7] != "Được rồi" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseReplyTruncatedArrayRepaired(t *testing.T) {
	got, err := ParseReply(`[{"id": 1, "translation": "Một"}, {"id": 2, "translation": "Hai"}`)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if len(got) != 2 || got[2] != "Hai" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseReplyKeyVariants(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantID  int
		want    string
	}{
		{"uppercase id", `[{"ID": 3, "translation": "Ba"}]`, 3, "Ba"},
		{"title id", `[{"Id": 4, "translation": "Bốn"}]`, 4, "Bốn"},
		{"string id", `[{"id": "5", "translation": "Năm"}]`, 5, "Năm"},
		{"vietnamese key", `[{"id": 6, "vietnamese": "Sáu"}]`, 6, "Sáu"},
		{"capitalized language key", `[{"id": 7, "Vietnamese": "Bảy"}]`, 7, "Bảy"},
		{"short language key", `[{"id": 8, "vi": "Tám"}]`, 8, "Tám"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseReply(tc.content)
			if err != nil {
				t.Fatalf("ParseReply: %v", err)
			}
			if got[tc.wantID] != tc.want {
				t.Fatalf("got %v, want %d=%q", got, tc.wantID, tc.want)
			}
		})
	}
}

func TestParseReplySkipsUnusableEntries(t *testing.T) {
	got, err := ParseReply(`[{"id": "abc", "translation": "bad"}, {"id": 2, "translation": "  "}, {"id": 3, "translation": "Tốt"}]`)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if len(got) != 1 || got[3] != "Tốt" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestParseReplyNoArray(t *testing.T) {
	if _, err := ParseReply("Sorry, I cannot translate that."); err == nil {
		t.Fatal("expected an error for a reply with no array")
	}
}

func TestParseReplyAllEntriesUnusable(t *testing.T) {
	if _, err := ParseReply(`[{"note": "nothing useful"}]`); err == nil {
		t.Fatal("expected an error when no entry is usable")
	}
}
