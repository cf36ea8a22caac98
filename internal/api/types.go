package api

import "github.com/nhle/mailnest/internal/model"

// ackResponse is returned when the backend accepts a long-running
// operation (HTTP 202).
type ackResponse struct {
	Message string `json:"message"`
}

type logsResponse struct {
	Logs []string `json:"logs"`
}

type credentialsResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	model.GmailCredentials
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type inviteResponse struct {
	Code string `json:"codigo"`
}

type duplicatesRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}
