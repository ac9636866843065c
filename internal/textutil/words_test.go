package textutil

import (
	"reflect"
	"testing"
)

func TestWordsKeepsContractions(t *testing.T) {
	got := Words("I don't think that's fair, Abby!")
	want := []string{"don't", "think", "that's", "fair", "abby"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
}

func TestWordsKeepsHyphenated(t *testing.T) {
	got := Words("a well-known solo")
	want := []string{"well-known", "solo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
}

func TestWordsDropsSingleLetters(t *testing.T) {
	got := Words("I a x ok")
	want := []string{"ok"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
}

func TestFilterStopwords(t *testing.T) {
	in := []string{"the", "pyramid", "is", "about", "ranking", "girls"}
	got := FilterStopwords(in)
	want := []string{"pyramid", "ranking", "girls"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterStopwords() = %v, want %v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	for _, word := range []string{"the", "don't", "i'm", "ten"} {
		if !IsStopword(word) {
			t.Errorf("expected %q to be a stopword", word)
		}
	}
	for _, word := range []string{"dance", "pyramid", "costume"} {
		if IsStopword(word) {
			t.Errorf("did not expect %q to be a stopword", word)
		}
	}
}

func TestEpisodeLabelRoundTrip(t *testing.T) {
	label := EpisodeLabel(2, 5)
	if label != "S02E05" {
		t.Fatalf("EpisodeLabel = %q", label)
	}
	season, episode, ok := ParseEpisodeLabel(label)
	if !ok || season != 2 || episode != 5 {
		t.Fatalf("ParseEpisodeLabel(%q) = %d, %d, %v", label, season, episode, ok)
	}
}

func TestParseEpisodeLabelLowercase(t *testing.T) {
	season, episode, ok := ParseEpisodeLabel("s11e03")
	if !ok || season != 11 || episode != 3 {
		t.Fatalf("ParseEpisodeLabel = %d, %d, %v", season, episode, ok)
	}
}

func TestParseEpisodeLabelRejectsJunk(t *testing.T) {
	for _, label := range []string{"", "S1E1", "s01e001", "episode5", "s01e02.vtt"} {
		if _, _, ok := ParseEpisodeLabel(label); ok {
			t.Errorf("expected %q to be rejected", label)
		}
	}
}

func TestSeasonDir(t *testing.T) {
	if got := SeasonDir(7); got != "s07" {
		t.Fatalf("SeasonDir = %q", got)
	}
}
