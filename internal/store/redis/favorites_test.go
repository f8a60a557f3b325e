package redis

import (
	"testing"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

func TestFavoritesCodec(t *testing.T) {
	list := domain.NewFavoritesList([]domain.ActivityIdentitySer{
		{Package: "org.mozilla.firefox", Class: "App", ProfileSerial: 0},
		{Package: "com.example.mail", Class: "Inbox", ProfileSerial: 10},
	})

	payloads, err := encodeFavorites(list)
	if err != nil {
		t.Fatalf("encodeFavorites() error = %v", err)
	}

	raw := make([]string, len(payloads))
	for i, p := range payloads {
		raw[i] = string(p.([]byte))
	}

	got, err := decodeFavorites(raw)
	if err != nil {
		t.Fatalf("decodeFavorites() error = %v", err)
	}
	if len(got) != len(list) {
		t.Fatalf("decodeFavorites() = %d entries, want %d", len(got), len(list))
	}
	for i := range list {
		if got[i] != list[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], list[i])
		}
	}
}

func TestDecodeFavorites_IndexIsRank(t *testing.T) {
	raw := []string{
		`{"identity":{"package":"b","class":"B","profile_serial":0},"rank":7}`,
		`{"identity":{"package":"a","class":"A","profile_serial":0},"rank":3}`,
	}

	got, err := decodeFavorites(raw)
	if err != nil {
		t.Fatalf("decodeFavorites() error = %v", err)
	}
	if got[0].Rank != 0 || got[1].Rank != 1 {
		t.Errorf("ranks = %d,%d, want 0,1", got[0].Rank, got[1].Rank)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("decoded list invalid: %v", err)
	}
}

func TestDecodeFavorites_Garbage(t *testing.T) {
	if _, err := decodeFavorites([]string{"not json"}); err == nil {
		t.Error("decodeFavorites() should fail on garbage")
	}
}

func TestLaunchField(t *testing.T) {
	got := LaunchField(domain.ActivityIdentitySer{Package: "p", Class: "c", ProfileSerial: 10})
	if got != "p/c#10" {
		t.Errorf("LaunchField() = %q, want %q", got, "p/c#10")
	}
}

func TestParseLaunchField(t *testing.T) {
	want := domain.ActivityIdentitySer{Package: "org.mozilla.firefox", Class: "App", ProfileSerial: 10}
	got, err := ParseLaunchField(LaunchField(want))
	if err != nil {
		t.Fatalf("ParseLaunchField() error = %v", err)
	}
	if got != want {
		t.Errorf("ParseLaunchField() = %+v, want %+v", got, want)
	}

	for _, bad := range []string{"", "no-serial", "p/c#x", "nopkg#1", "/c#1"} {
		if _, err := ParseLaunchField(bad); err == nil {
			t.Errorf("ParseLaunchField(%q) expected error", bad)
		}
	}
}
