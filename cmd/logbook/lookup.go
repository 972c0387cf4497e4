package main

import (
	"fmt"
	"strings"

	"logbook/internal/engine"
	"logbook/internal/model"
)

func findEntry(m *engine.Manager, prefix string) (*model.Entry, error) {
	var found *model.Entry
	for _, e := range m.Entries() {
		if !strings.HasPrefix(e.ID.String(), prefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("entry prefix %q is ambiguous", prefix)
		}
		found = e
	}
	if found == nil {
		return nil, fmt.Errorf("no entry matches %q", prefix)
	}
	return found, nil
}

func findAttachment(m *engine.Manager, prefix string) (*model.Attachment, error) {
	var found *model.Attachment
	for _, a := range m.All() {
		if !strings.HasPrefix(a.ID().String(), prefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("attachment prefix %q is ambiguous", prefix)
		}
		found = a
	}
	if found == nil {
		return nil, fmt.Errorf("no attachment matches %q", prefix)
	}
	return found, nil
}
