// Package apitest runs an in-memory stand-in for the EcoSync backend. It
// mirrors the REST routes, status codes and error bodies the client relies
// on and records every request so tests can assert on traffic.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/common"
)

const createdAt = "2025-01-15T09:30:00.000000"

// Backend is a fake EcoSync server.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	users      []models.User
	items      []models.Item
	intents    []models.BarterIntent
	reports    []models.LostFoundReport
	matches    []models.Match
	board      []models.LeaderboardEntry
	requests   []string
	requestIDs []string
	uploads    []string
	failures   map[string]int
	nextID     int64
	matchWith  int64
}

// NewBackend starts a fake server; it is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{failures: map[string]int{}, nextID: 1}

	r := mux.NewRouter()
	r.Use(b.record)
	r.HandleFunc("/health", b.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/users/", b.listUsers).Methods(http.MethodGet)
	v1.HandleFunc("/users/", b.createUser).Methods(http.MethodPost)
	v1.HandleFunc("/items/users/{id:[0-9]+}/items", b.listItems).Methods(http.MethodGet)
	v1.HandleFunc("/items/users/{id:[0-9]+}/items/upload-photo", b.uploadItemPhoto).Methods(http.MethodPost)
	v1.HandleFunc("/barter/barter-intents", b.createIntent).Methods(http.MethodPost)
	v1.HandleFunc("/lost-found/", b.listReports).Methods(http.MethodGet)
	v1.HandleFunc("/lost-found/", b.createReport).Methods(http.MethodPost)
	v1.HandleFunc("/lost-found/upload", b.uploadReportPhoto).Methods(http.MethodPost)
	v1.HandleFunc("/matches/{id:[0-9]+}", b.listMatches).Methods(http.MethodGet)
	v1.HandleFunc("/matches/{id:[0-9]+}/accept", b.acceptMatch).Methods(http.MethodPost)
	v1.HandleFunc("/eco-credits/leaderboard/top", b.leaderboard).Methods(http.MethodGet)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// BaseURL is the API root to hand to the client.
func (b *Backend) BaseURL() string {
	return b.Server.URL + "/api/v1"
}

// AddUser stores u, assigning an id, and returns the stored record.
func (b *Backend) AddUser(u models.UserCreate) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(u)
}

// AddItem stores an item owned by ownerID.
func (b *Backend) AddItem(ownerID int64, name, category string) models.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	it := models.Item{ID: b.id(), OwnerID: ownerID, Name: name, Category: category, Condition: "good", Status: "available"}
	b.items = append(b.items, it)
	return it
}

// AddMatch stores m, assigning an id.
func (b *Backend) AddMatch(m models.Match) models.Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	m.ID = b.id()
	if m.Status == "" {
		m.Status = models.MatchPending
	}
	b.matches = append(b.matches, m)
	return m
}

// SetLeaderboard replaces the leaderboard.
func (b *Backend) SetLeaderboard(entries []models.LeaderboardEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.board = entries
}

// MatchNextIntent makes the next barter intent close a direct match with
// partnerID.
func (b *Backend) MatchNextIntent(partnerID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matchWith = partnerID
}

// FailNext makes the next n requests to "METHOD path" answer with code.
func (b *Backend) FailNext(route string, code, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route+"#"+strconv.Itoa(code)] = n
}

// Users returns a copy of the stored users.
func (b *Backend) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.User(nil), b.users...)
}

// Reports returns a copy of the stored lost & found reports.
func (b *Backend) Reports() []models.LostFoundReport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.LostFoundReport(nil), b.reports...)
}

// Count returns how many requests matched "METHOD path".
func (b *Backend) Count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == route {
			n++
		}
	}
	return n
}

// RequestIDs returns the X-Request-ID header of every request seen.
func (b *Backend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDs...)
}

// Uploads returns "filename content-type" for every photo received.
func (b *Backend) Uploads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.uploads...)
}

func (b *Backend) id() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) addUserLocked(u models.UserCreate) models.User {
	user := models.User{
		ID: b.id(), Name: u.Name, Email: u.Email, Semester: u.Semester,
		Department: u.Department, Hostel: u.Hostel,
	}
	_ = json.Unmarshal([]byte(`"`+createdAt+`"`), &user.CreatedAt)
	b.users = append(b.users, user)
	return user
}

func (b *Backend) userLocked(id int64) (models.User, bool) {
	for _, u := range b.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.requests = append(b.requests, route)
		b.requestIDs = append(b.requestIDs, r.Header.Get(common.RequestIDHeaderName))
		code := 0
		for key, n := range b.failures {
			name, c, _ := strings.Cut(key, "#")
			if name == route && n > 0 {
				b.failures[key] = n - 1
				code, _ = strconv.Atoi(c)
				break
			}
		}
		b.mu.Unlock()

		if code != 0 {
			detail(w, code, http.StatusText(code))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"detail": msg})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	return id, err == nil
}

func (b *Backend) health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	users := append([]models.User{}, b.users...)
	b.mu.Unlock()
	respond(w, http.StatusOK, users)
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}
	if in.Semester < 1 || in.Semester > 8 {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "Input should be less than or equal to 8"}}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == in.Email {
			detail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	respond(w, http.StatusOK, b.addUserLocked(in))
}

func (b *Backend) listItems(w http.ResponseWriter, r *http.Request) {
	owner := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	items := []models.Item{}
	for _, it := range b.items {
		if it.OwnerID == owner {
			items = append(items, it)
		}
	}
	respond(w, http.StatusOK, items)
}

// readPhoto returns the "file" part, answering 400 when it is not an image.
func (b *Backend) readPhoto(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, hdr, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "Field required"}}})
		return "", false
	}
	defer file.Close()
	_, _ = io.Copy(io.Discard, file)

	ct := hdr.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		detail(w, http.StatusBadRequest, "File must be an image")
		return "", false
	}

	b.mu.Lock()
	b.uploads = append(b.uploads, hdr.Filename+" "+ct)
	b.mu.Unlock()
	return hdr.Filename, true
}

func (b *Backend) uploadItemPhoto(w http.ResponseWriter, r *http.Request) {
	owner := pathID(r)

	b.mu.Lock()
	_, ok := b.userLocked(owner)
	b.mu.Unlock()
	if !ok {
		detail(w, http.StatusNotFound, "User not found")
		return
	}

	name, ok := b.readPhoto(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	url := fmt.Sprintf("/uploads/%d_%s", owner, name)
	item := models.Item{
		ID: b.id(), OwnerID: owner, Name: "Scientific Calculator", Category: "Electronics",
		Condition: "good", PhotoURL: url, Status: "available",
	}
	b.items = append(b.items, item)
	respond(w, http.StatusOK, models.PhotoUploadResult{
		Item: item,
		Analysis: models.PhotoAnalysis{
			ItemName: item.Name, Category: item.Category, Condition: item.Condition,
			Description: "Casio fx-991EX, lightly used", EcoValue: 7, Confidence: 0.92,
		},
		PhotoURL: url,
	})
}

func (b *Backend) createIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "user_id required"}}})
		return
	}
	var in models.BarterIntentCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	user, ok := b.userLocked(userID)
	if !ok {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	var item *models.Item
	for i := range b.items {
		if b.items[i].ID == in.ItemID {
			item = &b.items[i]
		}
	}
	if item == nil {
		detail(w, http.StatusNotFound, "Item not found")
		return
	}
	if item.OwnerID != userID {
		detail(w, http.StatusForbidden, "Item does not belong to user")
		return
	}

	intent := models.BarterIntent{
		ID: b.id(), UserID: userID, ItemID: in.ItemID, WantCategory: in.WantCategory,
		WantDescription: in.WantDescription, Emergency: in.Emergency, Active: true,
	}
	b.intents = append(b.intents, intent)

	res := models.BarterIntentResult{BarterIntent: intent}
	if partnerID := b.matchWith; partnerID != 0 {
		b.matchWith = 0
		partner, _ := b.userLocked(partnerID)
		m := models.Match{
			ID: b.id(), Type: models.MatchDirect, Status: models.MatchPending,
			Participants: []models.Participant{
				{UserID: user.ID, UserName: user.Name, ItemID: item.ID, ItemName: item.Name, Wants: in.WantCategory},
				{UserID: partner.ID, UserName: partner.Name, Wants: item.Category},
			},
		}
		b.matches = append(b.matches, m)
		res.MatchFound = true
		res.Match = &m
	} else {
		res.Message = "No matches found yet. We'll notify you when a match is available!"
	}
	respond(w, http.StatusOK, res)
}

func (b *Backend) listReports(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	category := r.URL.Query().Get("category")

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.LostFoundReport{}
	for _, rep := range b.reports {
		switch {
		case category != "" && rep.Category != category:
			continue
		case category == "" && typ != "" && rep.Type != typ:
			continue
		}
		out = append(out, rep)
	}
	respond(w, http.StatusOK, out)
}

func (b *Backend) createReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(r)
	if !ok {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "user_id required"}}})
		return
	}
	var in models.LostFoundCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.userLocked(userID); !ok {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	if in.Type != models.ReportLost && in.Type != models.ReportFound {
		detail(w, http.StatusBadRequest, "Type must be 'lost' or 'found'")
		return
	}

	rep := models.LostFoundReport{
		ID: b.id(), UserID: userID, ItemName: in.ItemName, Category: in.Category,
		Description: in.Description, Type: in.Type, Active: true,
	}
	if in.PhotoURL != nil {
		rep.PhotoURL = *in.PhotoURL
	}
	_ = json.Unmarshal([]byte(`"`+createdAt+`"`), &rep.CreatedAt)
	b.reports = append(b.reports, rep)
	respond(w, http.StatusOK, rep)
}

func (b *Backend) uploadReportPhoto(w http.ResponseWriter, r *http.Request) {
	name, ok := b.readPhoto(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, models.PhotoRef{PhotoURL: "/uploads/lostfound_" + name})
}

func (b *Backend) listMatches(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.userLocked(userID); !ok {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	out := []models.Match{}
	for _, m := range b.matches {
		for _, p := range m.Participants {
			if p.UserID == userID {
				out = append(out, m)
				break
			}
		}
	}
	respond(w, http.StatusOK, out)
}

func (b *Backend) acceptMatch(w http.ResponseWriter, r *http.Request) {
	matchID := pathID(r)
	userID, ok := queryUserID(r)
	if !ok {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "user_id required"}}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var m *models.Match
	for i := range b.matches {
		if b.matches[i].ID == matchID {
			m = &b.matches[i]
		}
	}
	if m == nil {
		detail(w, http.StatusNotFound, "Match not found")
		return
	}

	member := false
	for _, p := range m.Participants {
		member = member || p.UserID == userID
	}
	if !member {
		detail(w, http.StatusForbidden, "User is not part of this match")
		return
	}

	if !m.AcceptedByUser(userID) {
		m.AcceptedBy = append(m.AcceptedBy, userID)
	}
	msg := "Match accepted. Waiting for other participants."
	m.Status = models.MatchAccepted
	if len(m.AcceptedBy) == len(m.Participants) {
		m.Status = models.MatchCompleted
		msg = "Match completed! Eco-credits awarded."
	}
	respond(w, http.StatusOK, models.AcceptResult{MatchID: m.ID, Status: m.Status, AcceptedBy: m.AcceptedBy, Message: msg})
}

func (b *Backend) leaderboard(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respond(w, http.StatusOK, append([]models.LeaderboardEntry{}, b.board...))
}
