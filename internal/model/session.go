package model

// Session is the public listing view of an announced session (not the GORM
// entity). The update key and the announcer's IP never appear here.
type Session struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	ID       string `json:"id"` // the caller-supplied session id, not the row id
	Protocol string `json:"protocol"`
	Title    string `json:"title"`
	Users    int    `json:"users"`
	Password bool   `json:"password"`
	Nsfm     bool   `json:"nsfm"`
	Owner    string `json:"owner"`
	Started  string `json:"started"` // "2006-01-02 15:04:05" in UTC
}

// ListFilter narrows ListSessions results.
type ListFilter struct {
	Title    string // case-insensitive substring match
	Protocol string // exact match
	Nsfm     bool   // include sessions tagged not-suitable-for-minors
}

// AnnounceRequest is the request body for POST /sessions. Pointer fields
// distinguish "absent" from zero values; absent optional fields default,
// absent required fields are rejected.
type AnnounceRequest struct {
	Host     *string `json:"host"`
	Port     *int    `json:"port"`
	ID       *string `json:"id"`
	Protocol *string `json:"protocol"`
	Title    *string `json:"title"`
	Users    *int    `json:"users"`
	Owner    *string `json:"owner"`
	Password *bool   `json:"password"`
	Nsfm     *bool   `json:"nsfm"`
}

// AnnounceResponse is returned once per session; the key is never shown again.
type AnnounceResponse struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// RefreshRequest is the request body for PUT /sessions/:id. Only fields
// present in the body are applied; the refresh itself always renews liveness.
type RefreshRequest struct {
	Title    *string `json:"title"`
	Users    *int    `json:"users"`
	Owner    *string `json:"owner"`
	Password *bool   `json:"password"`
	Nsfm     *bool   `json:"nsfm"`
}
