package models

import (
	"time"
)

// WordStatus is the moderation state of a submitted word.
type WordStatus string

const (
	WordStatusPending  WordStatus = "pending"
	WordStatusApproved WordStatus = "approved"
	WordStatusDeclined WordStatus = "declined"
)

type Word struct {
	ID           string     `json:"id"`
	Word         string     `json:"word"`
	Definition   string     `json:"definition"`
	Language     string     `json:"language"`
	PartOfSpeech string     `json:"part_of_speech"`
	Gender       string     `json:"gender,omitempty"`
	Conjugates   string     `json:"conjugates,omitempty"`
	UsageExample string     `json:"usage_example,omitempty"`
	Synonyms     string     `json:"synonyms,omitempty"`
	Antonyms     string     `json:"antonyms,omitempty"`
	Region       string     `json:"region,omitempty"`
	ZipCode      string     `json:"zip_code,omitempty"`
	AuthorID     string     `json:"author_id,omitempty"`
	AuthorEmail  string     `json:"-"`
	UserHandle   string     `json:"user_handle"`
	Upvotes      int        `json:"upvotes"`
	Downvotes    int        `json:"downvotes"`
	Status       WordStatus `json:"status"`
	PostedAt     time.Time  `json:"posted_at"`
}

// WordView is a Word annotated with the viewer's own vote state.
type WordView struct {
	Word
	Upvoted   bool `json:"upvoted"`
	Downvoted bool `json:"downvoted"`
}

// WordPage is one page of listing or search results.
type WordPage struct {
	Words      []WordView `json:"words"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}

// Author identifies the submitting user for a word.
type Author struct {
	Subject string
	Name    string
	Email   string
}

type SubmitWordRequest struct {
	Word         string `json:"word"`
	Definition   string `json:"definition"`
	Language     string `json:"language"`
	PartOfSpeech string `json:"part_of_speech"`
	Gender       string `json:"gender"`
	Conjugates   string `json:"conjugates"`
	UsageExample string `json:"usage_example"`
	Synonyms     string `json:"synonyms"`
	Antonyms     string `json:"antonyms"`
	Region       string `json:"region"`
	ZipCode      string `json:"zip_code"`
	Anonymous    bool   `json:"anonymous"`
}

func (r *SubmitWordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Word == "" {
		errors["word"] = "Word is required"
	}
	if r.Definition == "" {
		errors["def"] = "Definition is required"
	}
	if r.Language == "" {
		errors["language"] = "Language is required"
	}
	if r.PartOfSpeech == "" {
		errors["part_of_speech"] = "Part of speech is required"
	}

	return errors
}

// Handle returns the display handle recorded on the word.
func (r *SubmitWordRequest) Handle(authorName string) string {
	if r.Anonymous {
		return "Anonymous"
	}
	return authorName
}

// AnnotateVotes marks each word with the viewer's vote membership. A nil
// viewer yields views with both flags false.
func AnnotateVotes(words []*Word, viewer *User) []WordView {
	views := make([]WordView, 0, len(words))
	for _, w := range words {
		v := WordView{Word: *w}
		if viewer != nil {
			v.Upvoted = containsID(viewer.Upvotes, w.ID)
			v.Downvoted = containsID(viewer.Downvotes, w.ID)
		}
		views = append(views, v)
	}
	return views
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
