// Package ui is the terminal view of the client: named output regions,
// profile selectors and the renderers that fill them.
//
// Every region keeps only its latest content. Writing a region replaces what
// was there and echoes the new content to the view's writer, so the terminal
// shows renders in the order they happened.
package ui

import (
	"io"
	"strings"
	"sync"
)

type Region string

const (
	RegionHeader        Region = "header"
	RegionLogin         Region = "loginResponse"
	RegionRegister      Region = "registerResponse"
	RegionUpload        Region = "uploadResponse"
	RegionBarter        Region = "barterResponse"
	RegionLostFound     Region = "lostFoundResponse"
	RegionLostFoundList Region = "lostFoundList"
	RegionItemsList     Region = "itemsList"
	RegionMatchesList   Region = "matchesList"
	RegionLeaderboard   Region = "leaderboardList"
)

type Page string

const (
	PageLogin   Page = "login"
	PageLanding Page = "landing"
)

type View struct {
	Styles Styles

	mu        sync.Mutex
	out       io.Writer
	regions   map[Region]string
	page      Page
	selectors map[SelectorID]*Selector
}

// NewView returns a view echoing renders to out. A nil out keeps renders in
// memory only.
func NewView(out io.Writer, styles Styles) *View {
	v := &View{
		Styles:    styles,
		out:       out,
		regions:   make(map[Region]string),
		page:      PageLogin,
		selectors: make(map[SelectorID]*Selector),
	}
	for _, id := range ProfileSelectors {
		v.selectors[id] = NewSelector(id)
	}
	v.selectors[SelectBarterItem] = NewSelector(SelectBarterItem)
	return v
}

// Show replaces the content of region r.
func (v *View) Show(r Region, content string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.regions[r] = content
	if v.out != nil && content != "" {
		_, _ = io.WriteString(v.out, strings.TrimRight(content, "\n")+"\n")
	}
}

// Region returns the current content of r.
func (v *View) Region(r Region) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.regions[r]
}

func (v *View) Navigate(p Page) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = p
}

func (v *View) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Selector returns the selector with the given id, or nil if unknown.
func (v *View) Selector(id SelectorID) *Selector {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectors[id]
}
