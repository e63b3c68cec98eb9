package openreview

import "github.com/owlview/reviewtree/internal/note/model"

type notesResponse struct {
	Notes []apiNote `json:"notes"`
	Count int       `json:"count"`
}

// apiNote is the structured notes-endpoint record. Inline replies under
// details arrive loosely typed and go through model.FromMap.
type apiNote struct {
	ID         string         `json:"id"`
	Signatures []string       `json:"signatures"`
	CDate      int64          `json:"cdate"`
	ReplyTo    string         `json:"replyto"`
	Content    map[string]any `json:"content"`
	Details    struct {
		DirectReplies []map[string]any `json:"directReplies"`
	} `json:"details"`
}

func (a apiNote) toModel() model.Note {
	n := model.Note{
		ID:         a.ID,
		Signatures: a.Signatures,
		CDate:      a.CDate,
		ReplyTo:    a.ReplyTo,
		Content:    a.Content,
	}
	for _, reply := range a.Details.DirectReplies {
		n.DirectReplies = append(n.DirectReplies, model.FromMap(reply))
	}
	return n
}
