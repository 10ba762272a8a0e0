package session

import (
	"strings"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed behind the reading-time estimates.
const WordsPerMinute = 200

// Statistics is a read-only projection of the transcription and summary.
type Statistics struct {
	TranscriptionWords int `json:"transcription_words"`
	TranscriptionChars int `json:"transcription_chars"`
	SummaryWords       int `json:"summary_words"`
	SummaryChars       int `json:"summary_chars"`
	// CompressionRatio is summary words as a percentage of transcription words.
	CompressionRatio float64 `json:"compression_ratio"`
	// Reading minutes per text, clamped to at least 1 for display.
	TranscriptionReadingMinutes int `json:"transcription_reading_minutes"`
	SummaryReadingMinutes       int `json:"summary_reading_minutes"`
	// TimeSavedMinutes subtracts the unclamped estimates, then clamps at 0.
	TimeSavedMinutes int `json:"time_saved_minutes"`
}

func ComputeStatistics(transcription, summary string) Statistics {
	tw := WordCount(transcription)
	sw := WordCount(summary)

	stats := Statistics{
		TranscriptionWords:          tw,
		TranscriptionChars:          utf8.RuneCountInString(transcription),
		SummaryWords:                sw,
		SummaryChars:                utf8.RuneCountInString(summary),
		CompressionRatio:            CompressionRatio(tw, sw),
		TranscriptionReadingMinutes: displayMinutes(tw),
		SummaryReadingMinutes:       displayMinutes(sw),
	}
	if saved := readingMinutes(tw) - readingMinutes(sw); saved > 0 {
		stats.TimeSavedMinutes = saved
	}
	return stats
}

// WordCount counts whitespace-separated fields.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CompressionRatio is zero whenever the transcription has no words.
func CompressionRatio(transcriptionWords, summaryWords int) float64 {
	if transcriptionWords <= 0 {
		return 0
	}
	return float64(summaryWords) / float64(transcriptionWords) * 100
}

func readingMinutes(words int) int {
	return words / WordsPerMinute
}

func displayMinutes(words int) int {
	if m := readingMinutes(words); m > 1 {
		return m
	}
	return 1
}
