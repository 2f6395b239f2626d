package api

import (
	"net/http"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var item models.Item
	if err := decodeBody(r, &item); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.items.CreateItem(r.Context(), userID, &item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var patch struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Available   *bool   `json:"available"`
	}
	if err := decodeBody(r, &patch); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.items.UpdateItem(r.Context(), userID, itemID, domain.ItemPatch{
		Name:        patch.Name,
		Description: patch.Description,
		Available:   patch.Available,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleGetOwnItems(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.items.GetAllItemsUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.items.GetItemByID(r.Context(), userID, itemID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, err := actingUser(r); err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.items.SearchAvailableItems(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}

	comment, err := s.items.AddComment(r.Context(), userID, itemID, body.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
