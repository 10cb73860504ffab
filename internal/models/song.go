package models

import "time"

// Song is the normalized representation of one accepted catalogue row.
// The JSON tags define the per-song file consumed by the front-end.
type Song struct {
	LastUpdated         time.Time         `json:"-"`
	VideoLinks          map[string]string `json:"videoLinks"`
	PDFs                map[string]string `json:"pdfs"`
	Title               string            `json:"title"`
	Producer            string            `json:"producer"`
	Singer              string            `json:"singer"`
	ReleaseDate         string            `json:"releaseDate"`
	Transcriber         string            `json:"transcriber"`
	Status              string            `json:"-"`
	AlternativeNames    []string          `json:"alternativeNames"`
	AdditionalProducers []string          `json:"additionalProducers"`
	AdditionalVoices    []string          `json:"additionalVoices"`
	Labels              []string          `json:"labels"`
	Row                 int               `json:"-"`
}

// SongFile is the on-disk layout of a song, in the field order the front-end expects.
type SongFile struct {
	Title               string            `json:"title"`
	AlternativeNames    []string          `json:"alternativeNames"`
	Producer            string            `json:"producer"`
	AdditionalProducers []string          `json:"additionalProducers"`
	Singer              string            `json:"singer"`
	AdditionalVoices    []string          `json:"additionalVoices"`
	ReleaseDate         string            `json:"releaseDate"`
	Labels              []string          `json:"labels"`
	Transcriber         string            `json:"transcriber"`
	VideoLinks          map[string]string `json:"videoLinks"`
	PDFs                map[string]string `json:"pdfs"`
}

// File converts the song into its front-end file layout.
// Nil collections are replaced with empty ones so they encode as [] and {}.
func (s *Song) File() SongFile {
	return SongFile{
		Title:               s.Title,
		AlternativeNames:    nonNilSlice(s.AlternativeNames),
		Producer:            s.Producer,
		AdditionalProducers: nonNilSlice(s.AdditionalProducers),
		Singer:              s.Singer,
		AdditionalVoices:    nonNilSlice(s.AdditionalVoices),
		ReleaseDate:         s.ReleaseDate,
		Labels:              nonNilSlice(s.Labels),
		Transcriber:         s.Transcriber,
		VideoLinks:          nonNilMap(s.VideoLinks),
		PDFs:                nonNilMap(s.PDFs),
	}
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}
