package render

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
)

var (
	noticeBG     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	noticeFG     = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	noticeBorder = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
	noticeHeader = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
	noticeTitle  = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
)

const (
	noticeMargin  = 16
	noticePadding = 4
)

type notice struct {
	title string
	body  string
}

// ShowMessage puts up a notice over the plot until Dismiss.
func (s *Surface) ShowMessage(title, body string) {
	if s.closed {
		return
	}
	s.notice = &notice{title: title, body: body}
}

func (s *Surface) NoticeActive() bool { return s.notice != nil }

func (s *Surface) Dismiss() { s.notice = nil }

func (s *Surface) drawNotice() {
	w, h := s.Size()
	boxW := w - 2*noticeMargin
	textW := boxW - 2*noticePadding
	if textW <= 0 {
		return
	}
	maxLines := int((h - 2*noticeMargin - 2*noticePadding - fontHeight) / fontHeight)
	if maxLines <= 0 {
		return
	}

	lines := wrapText(s.font, s.notice.body, int(textW))
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "...")
	}

	boxH := int16(len(lines)+1)*fontHeight + 2*noticePadding
	x := int16(noticeMargin)
	y := (h - boxH) / 2

	_ = s.FillRectangle(x-1, y-1, boxW+2, boxH+2, noticeBorder)
	_ = s.FillRectangle(x, y, boxW, boxH, noticeBG)
	_ = s.FillRectangle(x, y, boxW, fontHeight+noticePadding, noticeHeader)

	title := clipText(s.font, s.notice.title, int(textW))
	tinyfont.WriteLine(s, s.font, x+noticePadding, y+noticePadding/2+fontOffset, title, noticeTitle)

	ty := y + fontHeight + noticePadding
	for _, line := range lines {
		tinyfont.WriteLine(s, s.font, x+noticePadding, ty+fontOffset, line, noticeFG)
		ty += fontHeight
	}
}

// wrapText breaks s into lines no wider than maxW pixels, splitting on
// spaces and hard-breaking words that do not fit on their own.
func wrapText(font tinyfont.Fonter, s string, maxW int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			cand := word
			if line != "" {
				cand = line + " " + word
			}
			if textWidth(font, cand) <= maxW {
				line = cand
				continue
			}
			if line != "" {
				out = append(out, line)
				line = ""
			}
			for textWidth(font, word) > maxW {
				head, rest := takeFitting(font, word, maxW)
				out = append(out, head)
				word = rest
			}
			line = word
		}
		out = append(out, line)
	}
	return out
}

// takeFitting returns the longest rune prefix of s that fits in maxW, and at
// least one rune.
func takeFitting(font tinyfont.Fonter, s string, maxW int) (prefix, rest string) {
	i := 0
	for i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		if i > 0 && textWidth(font, s[:i+size]) > maxW {
			break
		}
		i += size
	}
	return s[:i], s[i:]
}

func clipText(font tinyfont.Fonter, s string, maxW int) string {
	if textWidth(font, s) <= maxW {
		return s
	}
	head, _ := takeFitting(font, s, maxW)
	return head
}

func textWidth(font tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(font, s)
	return int(outbox)
}
