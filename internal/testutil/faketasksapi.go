package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// RemoteTask is a task as stored by FakeTasksAPI.
type RemoteTask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status"`
}

// RemoteList is a task list as stored by FakeTasksAPI.
type RemoteList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FakeTasksAPI is an httptest server emulating the subset of the Google Tasks
// REST API used by the export backend.
type FakeTasksAPI struct {
	Server *httptest.Server

	mu     sync.Mutex
	lists  []RemoteList
	tasks  map[string][]RemoteTask // list ID -> tasks
	nextID int

	// FailStatus, when non-zero, is returned for every request.
	FailStatus int
}

// NewFakeTasksAPI starts a fake Tasks API server. Close it with Close.
func NewFakeTasksAPI() *FakeTasksAPI {
	f := &FakeTasksAPI{tasks: make(map[string][]RemoteTask)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// URL returns the server's base URL with a trailing slash.
func (f *FakeTasksAPI) URL() string {
	return f.Server.URL + "/"
}

// Close shuts the server down.
func (f *FakeTasksAPI) Close() {
	f.Server.Close()
}

// AddList seeds a list and returns its ID.
func (f *FakeTasksAPI) AddList(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addListLocked(title).ID
}

// AddTask seeds a task into a list.
func (f *FakeTasksAPI) AddTask(listID string, t RemoteTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = f.newIDLocked("task")
	}
	f.tasks[listID] = append(f.tasks[listID], t)
}

// Lists returns all lists.
func (f *FakeTasksAPI) Lists() []RemoteList {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RemoteList(nil), f.lists...)
}

// Tasks returns the tasks of a list.
func (f *FakeTasksAPI) Tasks(listID string) []RemoteTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RemoteTask(nil), f.tasks[listID]...)
}

func (f *FakeTasksAPI) newIDLocked(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *FakeTasksAPI) addListLocked(title string) RemoteList {
	l := RemoteList{ID: f.newIDLocked("list"), Title: title}
	f.lists = append(f.lists, l)
	f.tasks[l.ID] = nil
	return l
}

func (f *FakeTasksAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailStatus != 0 {
		writeJSON(w, f.FailStatus, map[string]any{
			"error": map[string]any{"code": f.FailStatus, "message": http.StatusText(f.FailStatus)},
		})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/tasks/v1/")
	parts := strings.Split(path, "/")

	switch {
	// users/@me/lists
	case len(parts) == 3 && parts[0] == "users" && parts[2] == "lists":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"kind": "tasks#taskLists", "items": f.lists})
		case http.MethodPost:
			var body RemoteList
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, f.addListLocked(body.Title))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	// lists/{list}/tasks
	case len(parts) == 3 && parts[0] == "lists" && parts[2] == "tasks":
		listID := parts[1]
		if _, ok := f.tasks[listID]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "not found"}})
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"kind": "tasks#tasks", "items": f.tasks[listID]})
		case http.MethodPost:
			var body RemoteTask
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			body.ID = f.newIDLocked("task")
			if body.Status == "" {
				body.Status = "needsAction"
			}
			f.tasks[listID] = append(f.tasks[listID], body)
			writeJSON(w, http.StatusOK, body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	// lists/{list}/tasks/{task}
	case len(parts) == 4 && parts[0] == "lists" && parts[2] == "tasks":
		listID, taskID := parts[1], parts[3]
		for i, t := range f.tasks[listID] {
			if t.ID != taskID {
				continue
			}
			if r.Method != http.MethodPatch {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			var body RemoteTask
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if body.Title != "" {
				t.Title = body.Title
			}
			if body.Notes != "" {
				t.Notes = body.Notes
			}
			if body.Status != "" {
				t.Status = body.Status
			}
			f.tasks[listID][i] = t
			writeJSON(w, http.StatusOK, t)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "not found"}})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
