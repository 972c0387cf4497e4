package main

import (
	"fmt"
	"strings"

	"logbook/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func shortID(a *model.Attachment) string {
	return a.ID().String()[:6]
}

func formatEntry(e *model.Entry, count int) string {
	return fmt.Sprintf("  %s  %s %s\n", faint(e.ShortID()), bold(e.Title),
		faint(fmt.Sprintf("[%d files, updated %s]", count, humanize.Time(e.UpdatedAt))))
}

func formatAttachment(a *model.Attachment) string {
	var sb strings.Builder

	name := a.Name()
	if a.Broken() {
		name = red("! " + name)
	}
	sb.WriteString(fmt.Sprintf("  %s  %s %s\n", faint(shortID(a)), name, cyan("["+a.Type().Name+"]")))

	if !a.IsURL() {
		sb.WriteString(fmt.Sprintf("          %s %s  %s %s\n",
			faint("Size:"), a.DisplaySize(),
			faint("Modified:"), a.DisplayAge()))
		sb.WriteString(fmt.Sprintf("          %s %s\n", faint("Path:"), faint(a.Path())))
	}
	if a.Comments() != "" {
		sb.WriteString(fmt.Sprintf("          %s %s\n", faint("Note:"), a.Comments()))
	}
	return sb.String()
}
