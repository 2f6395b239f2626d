package api

import "net/http"

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body struct {
		Description string `json:"description"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), userID, body.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) handleGetOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.requests.GetOwnRequests(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.requests.GetOtherRequests(r.Context(), userID, from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requestID, err := pathID(r, "requestId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.requests.GetRequestByID(r.Context(), userID, requestID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
