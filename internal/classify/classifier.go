// Package classify maps file extensions to category labels.
package classify

import (
	"strings"

	"dlsort/internal/config"

	"github.com/gabriel-vasile/mimetype"
)

// Misc is the reserved category for extensions no rule claims
const Misc = "misc"

type rule struct {
	name       string
	extensions map[string]struct{}
}

// Classifier holds the category rules in their configured order
type Classifier struct {
	rules []rule
	sniff bool
}

// New builds a classifier from the configuration's category rules
func New(cfg *config.WatchConfig) *Classifier {
	c := &Classifier{sniff: cfg.SniffContent()}
	for _, cat := range cfg.Categories() {
		r := rule{name: cat.Name, extensions: make(map[string]struct{}, len(cat.Extensions))}
		for _, ext := range cat.Extensions {
			r.extensions[ext] = struct{}{}
		}
		c.rules = append(c.rules, r)
	}
	return c
}

// Normalize lowercases ext and ensures the leading dot. An empty extension
// stays empty.
func Normalize(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Classify returns the first category whose extension set contains ext,
// or Misc. It never fails.
func (c *Classifier) Classify(ext string) string {
	ext = Normalize(ext)
	if ext == "" {
		return Misc
	}
	for _, r := range c.rules {
		if _, ok := r.extensions[ext]; ok {
			return r.name
		}
	}
	return Misc
}

// ClassifyFile classifies by ext. With content sniffing enabled, a file
// without any extension is classified by the MIME type of its content.
func (c *Classifier) ClassifyFile(path, ext string) string {
	category := c.Classify(ext)
	if category != Misc || !c.sniff || ext != "" {
		return category
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return Misc
	}
	if guess := categoryForMIME(mime.String()); guess != "" && c.has(guess) {
		return guess
	}
	return Misc
}

func (c *Classifier) has(name string) bool {
	for _, r := range c.rules {
		if r.name == name {
			return true
		}
	}
	return false
}
