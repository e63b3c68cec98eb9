package model

// Note is one discussion entry: the forum submission itself or any
// comment/review in its reply tree. Notes arrive flat; nesting is
// reconstructed from ReplyTo.
type Note struct {
	ID         string         `json:"id"`
	Signatures []string       `json:"signatures"`
	CDate      int64          `json:"cdate"`
	ReplyTo    string         `json:"replyto,omitempty"`
	Content    map[string]any `json:"content,omitempty"`

	// DirectReplies is the inline reply list some API responses attach
	// under details. It is advisory: it may stop one level deep, so it
	// must never be used to rebuild full nesting.
	DirectReplies []Note `json:"directReplies,omitempty"`
}

// IsRoot reports whether the note is the thread root (no parent).
func (n Note) IsRoot() bool {
	return n.ReplyTo == ""
}

// FromMap adapts a loosely-typed record (the shape inline advisory
// replies arrive in) into a canonical Note. Missing or wrongly-typed
// keys degrade to zero values.
func FromMap(m map[string]any) Note {
	n := Note{
		ID:      getString(m, "id"),
		ReplyTo: getString(m, "replyto"),
	}

	switch v := m["cdate"].(type) {
	case float64:
		n.CDate = int64(v)
	case int64:
		n.CDate = v
	case int:
		n.CDate = int64(v)
	}

	if sigs, ok := m["signatures"].([]any); ok {
		for _, s := range sigs {
			if str, ok := s.(string); ok {
				n.Signatures = append(n.Signatures, str)
			}
		}
	} else if sigs, ok := m["signatures"].([]string); ok {
		n.Signatures = append(n.Signatures, sigs...)
	}

	if content, ok := m["content"].(map[string]any); ok {
		n.Content = content
	}

	if details, ok := m["details"].(map[string]any); ok {
		if replies, ok := details["directReplies"].([]any); ok {
			for _, r := range replies {
				if rm, ok := r.(map[string]any); ok {
					n.DirectReplies = append(n.DirectReplies, FromMap(rm))
				}
			}
		}
	}

	return n
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
