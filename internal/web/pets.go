package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"petwatch/internal/imaging"
	"petwatch/internal/model"
	"petwatch/internal/store"
)

// maxUploadBytes bounds a whole multipart upload request.
const maxUploadBytes = 50 << 20

// PetsPage handles GET /pets.
func (s *Server) PetsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	pets, err := store.ListLostPetsByUser(r.Context(), s.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to list pets", "error", err)
	}

	s.Templates.Render(w, "pets.html", &struct {
		PageData
		Pets []model.LostPet
	}{
		PageData: PageData{Title: "My lost pets", User: claims},
		Pets:     pets,
	})
}

// PetCreateSubmit handles POST /pets.
func (s *Server) PetCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	name := r.FormValue("name")
	description := r.FormValue("description")

	if name == "" {
		http.Redirect(w, r, "/pets", http.StatusSeeOther)
		return
	}

	pet, err := store.CreateLostPet(r.Context(), s.DB, claims.UserID, name, description)
	if err != nil {
		slog.Error("failed to create lost pet report", "error", err)
		http.Error(w, "failed to create report", http.StatusInternalServerError)
		return
	}

	slog.Info("lost pet reported", "user", claims.Username, "pet", pet.Name)
	http.Redirect(w, r, fmt.Sprintf("/pets/%d", pet.ID), http.StatusSeeOther)
}

// PetDetailPage handles GET /pets/{id}.
func (s *Server) PetDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	pet := s.ownedPet(w, r)
	if pet == nil {
		return
	}

	images, err := store.ListPetImages(r.Context(), s.DB, pet.ID)
	if err != nil {
		slog.Error("failed to list pet images", "error", err)
	}

	s.Templates.Render(w, "pet_detail.html", &struct {
		PageData
		Pet       *model.LostPet
		Images    []model.LostPetImage
		MaxImages int
	}{
		PageData:  PageData{Title: pet.Name, User: claims},
		Pet:       pet,
		Images:    images,
		MaxImages: model.MaxImagesPerPet,
	})
}

// PetDeleteSubmit handles POST /pets/{id}/delete. Image rows cascade
// with the report; stored files are removed best-effort afterwards.
func (s *Server) PetDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	pet := s.ownedPet(w, r)
	if pet == nil {
		return
	}

	images, err := store.ListPetImages(r.Context(), s.DB, pet.ID)
	if err != nil {
		slog.Error("failed to list pet images before delete", "error", err)
	}

	if err := store.DeleteLostPet(r.Context(), s.DB, pet.ID); err != nil {
		slog.Error("failed to delete lost pet report", "error", err)
		http.Error(w, "failed to delete report", http.StatusInternalServerError)
		return
	}

	for _, img := range images {
		if err := s.Media.Remove(img.Path); err != nil {
			slog.Warn("failed to remove stored photo", "path", img.Path, "error", err)
		}
	}

	slog.Info("lost pet report deleted", "user", claims.Username, "pet", pet.Name)
	http.Redirect(w, r, "/pets", http.StatusSeeOther)
}

// UploadImages handles POST /upload_images/{pet_id}: attaches one or
// more photos to a report. The whole batch is rejected with 400 when it
// would push the report past the image cap.
func (s *Server) UploadImages(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("pet_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	pet, err := store.GetLostPet(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get lost pet", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if pet == nil || pet.UserID != claims.UserID {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "upload too large or invalid multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		http.Error(w, "at least one image required", http.StatusBadRequest)
		return
	}

	// Early cap check before touching the filesystem; the store re-checks
	// inside the insert transaction.
	if pet.ImageCount+len(files) > model.MaxImagesPerPet {
		http.Error(w, fmt.Sprintf("image limit exceeded: a report can have at most %d photos", model.MaxImagesPerPet), http.StatusBadRequest)
		return
	}

	var paths []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			http.Error(w, "reading upload", http.StatusBadRequest)
			return
		}

		photo, err := imaging.Process(file)
		file.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		name, err := s.Media.Save(header.Filename, photo.Data)
		if err != nil {
			slog.Error("failed to store photo", "error", err)
			http.Error(w, "failed to store photo", http.StatusInternalServerError)
			return
		}
		paths = append(paths, name)
	}

	if _, err := store.AddPetImages(r.Context(), s.DB, pet.ID, paths); err != nil {
		// The files are already written; the rows are all-or-nothing.
		if errors.Is(err, store.ErrImageCapExceeded) {
			http.Error(w, fmt.Sprintf("image limit exceeded: a report can have at most %d photos", model.MaxImagesPerPet), http.StatusBadRequest)
			return
		}
		slog.Error("failed to record photos", "error", err)
		http.Error(w, "failed to record photos", http.StatusInternalServerError)
		return
	}

	slog.Info("photos uploaded", "user", claims.Username, "pet", pet.Name, "count", len(paths))
	http.Redirect(w, r, fmt.Sprintf("/pets/%d", pet.ID), http.StatusSeeOther)
}

// PetImageGet handles GET /pets/{id}/images/{image_id}.
func (s *Server) PetImageGet(w http.ResponseWriter, r *http.Request) {
	pet := s.ownedPet(w, r)
	if pet == nil {
		return
	}

	imageID, err := strconv.ParseInt(r.PathValue("image_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid image id", http.StatusBadRequest)
		return
	}

	img, err := store.GetPetImage(r.Context(), s.DB, imageID)
	if err != nil {
		slog.Error("failed to get pet image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if img == nil || img.LostPetID != pet.ID {
		http.NotFound(w, r)
		return
	}

	path, err := s.Media.Open(img.Path)
	if err != nil {
		slog.Error("stored photo missing", "path", img.Path, "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, path)
}

// ownedPet resolves the {id} path value to a report owned by the
// current user, writing the error response itself when absent.
func (s *Server) ownedPet(w http.ResponseWriter, r *http.Request) *model.LostPet {
	claims := GetWebClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return nil
	}

	pet, err := store.GetLostPet(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get lost pet", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	if pet == nil || pet.UserID != claims.UserID {
		http.Error(w, "pet not found", http.StatusNotFound)
		return nil
	}
	return pet
}
