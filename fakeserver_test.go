package mailtm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// fakeMailTM is an in-memory stand-in for the mail.tm API. It keeps just
// enough state to walk an account through its lifecycle.
type fakeMailTM struct {
	mu       sync.Mutex
	domains  []string
	accounts map[string]*Account // by id
	tokens   map[string]string   // token -> account id
	messages map[string][]Message
	sources  map[string]string // message id -> raw source
	pageSize int
	nextID   int

	// requests records "METHOD /path?query" for every request received.
	requests []string
	// tokenBodies records the decoded POST /token bodies.
	tokenBodies []credentials
}

type credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

func newFakeMailTM(t *testing.T, domains ...string) (*fakeMailTM, *Client) {
	t.Helper()

	f := &fakeMailTM{
		domains:  domains,
		accounts: make(map[string]*Account),
		tokens:   make(map[string]string),
		messages: make(map[string][]Message),
		sources:  make(map[string]string),
		pageSize: 30,
	}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	client, err := New(WithBaseURL(srv.URL))
	require.NoError(t, err)
	return f, client
}

func (f *fakeMailTM) router() http.Handler {
	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/domains", f.listDomains).Methods(http.MethodGet)
	r.HandleFunc("/domains/{id}", f.getDomain).Methods(http.MethodGet)
	r.HandleFunc("/accounts", f.createAccount).Methods(http.MethodPost)
	r.HandleFunc("/token", f.requestToken).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(f.authenticate)
	authed.HandleFunc("/me", f.me).Methods(http.MethodGet)
	authed.HandleFunc("/accounts/{id}", f.getAccount).Methods(http.MethodGet)
	authed.HandleFunc("/accounts/{id}", f.deleteAccount).Methods(http.MethodDelete)
	authed.HandleFunc("/messages", f.listMessages).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{id}", f.getMessage).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{id}", f.deleteMessage).Methods(http.MethodDelete)
	authed.HandleFunc("/sources/{id}", f.getSource).Methods(http.MethodGet)
	return r
}

func (f *fakeMailTM) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type ctxAccountID struct{}

func accountIDOf(r *http.Request) string {
	id, _ := r.Context().Value(ctxAccountID{}).(string)
	return id
}

func (f *fakeMailTM) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		id, known := f.tokens[token]
		f.mu.Unlock()
		if !ok || !known {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "JWT Token not found"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxAccountID{}, id)))
	})
}

func (f *fakeMailTM) listDomains(w http.ResponseWriter, r *http.Request) {
	members := make([]Domain, 0, len(f.domains))
	for i, d := range f.domains {
		members = append(members, fakeDomain(i, d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hydra:member":     members,
		"hydra:totalItems": len(members),
	})
}

func (f *fakeMailTM) getDomain(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for i, d := range f.domains {
		if dom := fakeDomain(i, d); dom.ID == id {
			writeJSON(w, http.StatusOK, dom)
			return
		}
	}
	writeHydraError(w, http.StatusNotFound, "Not Found")
}

func fakeDomain(i int, name string) Domain {
	return Domain{ID: "dom-" + strconv.Itoa(i), Domain: name, IsActive: true}
}

func (f *fakeMailTM) createAccount(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeHydraError(w, http.StatusBadRequest, "Syntax error")
		return
	}

	_, domain, _ := strings.Cut(body.Address, "@")
	if !f.knownDomain(domain) {
		writeHydraError(w, http.StatusUnprocessableEntity, "address: This value is not valid.")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.Address, body.Address) {
			writeHydraError(w, http.StatusUnprocessableEntity, "address: This value is already used.")
			return
		}
	}
	f.nextID++
	acct := &Account{
		ID:        "acct-" + strconv.Itoa(f.nextID),
		Address:   body.Address,
		Quota:     40000000,
		CreatedAt: "2024-01-01T00:00:00+00:00",
		UpdatedAt: "2024-01-01T00:00:00+00:00",
	}
	acct.Context = "/contexts/Account"
	acct.Type = "Account"
	acct.Metadata.ID = "/accounts/" + acct.ID
	// The stored copy keeps the password; responses strip it.
	acct.Password = body.Password
	f.accounts[acct.ID] = acct

	out := *acct
	out.Password = ""
	writeJSON(w, http.StatusCreated, out)
}

func (f *fakeMailTM) knownDomain(name string) bool {
	for _, d := range f.domains {
		if d == name {
			return true
		}
	}
	return false
}

func (f *fakeMailTM) requestToken(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeHydraError(w, http.StatusBadRequest, "Syntax error")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenBodies = append(f.tokenBodies, body)
	for _, a := range f.accounts {
		if strings.EqualFold(a.Address, body.Address) && a.Password == body.Password {
			token := "tok-" + a.ID + "-" + strconv.Itoa(len(f.tokenBodies))
			f.tokens[token] = a.ID
			writeJSON(w, http.StatusOK, Token{ID: a.ID, Token: token})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "Invalid credentials."})
}

func (f *fakeMailTM) account(id string) (Account, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return Account{}, false
	}
	out := *a
	out.Password = ""
	return out, true
}

func (f *fakeMailTM) me(w http.ResponseWriter, r *http.Request) {
	a, ok := f.account(accountIDOf(r))
	if !ok {
		writeHydraError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (f *fakeMailTM) getAccount(w http.ResponseWriter, r *http.Request) {
	a, ok := f.account(mux.Vars(r)["id"])
	if !ok {
		writeHydraError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (f *fakeMailTM) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		writeHydraError(w, http.StatusNotFound, "Not Found")
		return
	}
	delete(f.accounts, id)
	delete(f.messages, id)
	w.WriteHeader(http.StatusNoContent)
}

// deliver adds messages to the front of an account's mailbox, newest first
// like the real service.
func (f *fakeMailTM) deliver(accountID string, msgs ...Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		m.AccountID = accountID
		f.messages[accountID] = append([]Message{m}, f.messages[accountID]...)
	}
}

func (f *fakeMailTM) listMessages(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeHydraError(w, http.StatusBadRequest, "Page should not be less than 1")
			return
		}
		page = n
	}

	f.mu.Lock()
	all := f.messages[accountIDOf(r)]
	f.mu.Unlock()

	start := min((page-1)*f.pageSize, len(all))
	end := min(start+f.pageSize, len(all))
	members := make([]Message, 0, end-start)
	for _, m := range all[start:end] {
		// List entries carry only the envelope.
		m.Text, m.HTML, m.Attachments = "", nil, nil
		members = append(members, m)
	}

	body := map[string]any{
		"hydra:member":     members,
		"hydra:totalItems": len(all),
	}
	if len(all) > f.pageSize {
		last := (len(all) + f.pageSize - 1) / f.pageSize
		view := map[string]string{
			"@id":         fmt.Sprintf("/messages?page=%d", page),
			"hydra:first": "/messages?page=1",
			"hydra:last":  fmt.Sprintf("/messages?page=%d", last),
		}
		if page < last {
			view["hydra:next"] = fmt.Sprintf("/messages?page=%d", page+1)
		}
		body["hydra:view"] = view
	}
	writeJSON(w, http.StatusOK, body)
}

func (f *fakeMailTM) findMessage(r *http.Request) (int, []Message, bool) {
	id := mux.Vars(r)["id"]
	msgs := f.messages[accountIDOf(r)]
	for i, m := range msgs {
		if m.ID == id {
			return i, msgs, true
		}
	}
	return 0, nil, false
}

func (f *fakeMailTM) getMessage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	i, msgs, ok := f.findMessage(r)
	f.mu.Unlock()
	if !ok {
		writeHydraError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, msgs[i])
}

func (f *fakeMailTM) deleteMessage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, msgs, ok := f.findMessage(r)
	if !ok {
		writeHydraError(w, http.StatusNotFound, "Not Found")
		return
	}
	acct := accountIDOf(r)
	f.messages[acct] = append(msgs[:i:i], msgs[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeMailTM) getSource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	data, ok := f.sources[id]
	f.mu.Unlock()
	if !ok {
		writeHydraError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, Source{ID: id, DownloadURL: "/sources/" + id + "/download", Data: data})
}

func (f *fakeMailTM) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/ld+json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHydraError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, map[string]any{
		"@type":             "hydra:Error",
		"hydra:title":       "An error occurred",
		"hydra:description": description,
	})
}
