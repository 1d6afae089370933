package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"myblog/internal/models"
	"myblog/internal/render"
	"myblog/internal/storage"
	"myblog/internal/store"
)

// maxFormMemory is the part of a multipart form kept in memory; the rest
// of an upload spills to disk.
const maxFormMemory = 1 << 20

// MaxPostBody caps the body of a post form: one head image plus the text
// fields. The router applies it ahead of CSRF parsing.
const MaxPostBody = storage.MaxHeadImageSize + maxFormMemory

// Form errors shown next to the post form.
var (
	errInvalidCategory = &models.ValidationError{Field: "category", Message: "Select a valid category."}
	errUnreadableForm  = &models.ValidationError{Field: "form", Message: "The form could not be read. Please try again."}
)

// parsePostForm reads and validates the post form. A head image is only
// uploaded once the text fields are valid. post is the post being edited,
// or nil on create.
func (b *Blog) parsePostForm(w http.ResponseWriter, r *http.Request, post *models.Post) (models.PostInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxPostBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.PostInput{}, storage.ErrTooLarge
		}
		return models.PostInput{}, errUnreadableForm
	}

	in := models.PostInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Tags:    models.ParseTagNames(r.FormValue("tags")),
	}
	if raw := strings.TrimSpace(r.FormValue("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return in, errInvalidCategory
		}
		in.CategoryID = &id
	}

	if err := in.Validate(); err != nil {
		return in, err
	}

	key, err := b.saveHeadImage(r)
	if err != nil {
		return in, err
	}
	switch {
	case key != "":
		in.HeadImage = &key
	case post != nil && post.HeadImage != "" && r.FormValue("head_image_clear") != "":
		cleared := ""
		in.HeadImage = &cleared
	}
	return in, nil
}

// saveHeadImage stores the uploaded head image, if any, and returns its key.
// The content type is sniffed from the file rather than trusted from the
// browser.
func (b *Blog) saveHeadImage(r *http.Request) (string, error) {
	if b.images == nil || r.MultipartForm == nil {
		return "", nil
	}

	file, header, err := r.FormFile("head_image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read head image: %w", err)
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read head image: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind head image: %w", err)
	}

	up := models.ImageUpload{
		OriginalName: header.Filename,
		ContentType:  http.DetectContentType(sniff[:n]),
		SizeBytes:    header.Size,
	}
	return b.images.SaveHeadImage(r.Context(), up, file)
}

// renderForm renders the create or edit form. post is nil on create.
func (b *Blog) renderForm(w http.ResponseWriter, r *http.Request, status int, post *models.Post, in models.PostInput, errMsg string) {
	cats, err := b.categories.List(r.Context())
	if err != nil {
		b.fail(w, r, err)
		return
	}

	title, action := "New post", "/blog/create/"
	data := map[string]any{
		"Form":           in,
		"TagsField":      strings.Join(in.Tags, ", "),
		"Categories":     cats,
		"UploadsEnabled": b.images != nil,
	}
	if post != nil {
		title, action = "Edit "+post.Title, post.UpdateURL()
		data["Post"] = post
	}
	data["Action"] = action
	if errMsg != "" {
		data["Error"] = errMsg
	}

	b.renderer.Page(w, r, status, "post_form", &render.PageData{
		Title: title,
		Data:  data,
	})
}

// formFailed re-renders the form with a message for user errors and falls
// back to an error page for everything else.
func (b *Blog) formFailed(w http.ResponseWriter, r *http.Request, post *models.Post, in models.PostInput, err error) {
	msg, ok := formMessage(err)
	if !ok {
		b.fail(w, r, err)
		return
	}
	b.renderForm(w, r, http.StatusUnprocessableEntity, post, in, msg)
}

// formMessage returns the user-facing message for errors caused by the
// submitted form.
func formMessage(err error) (string, bool) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message, true
	case errors.Is(err, store.ErrDuplicate):
		return "A record with this name already exists.", true
	case errors.Is(err, store.ErrMissingReference):
		return errInvalidCategory.Message, true
	case errors.Is(err, storage.ErrNotImage):
		return "Head image must be an image file.", true
	case errors.Is(err, storage.ErrTooLarge):
		limit := models.ImageUpload{SizeBytes: storage.MaxHeadImageSize}
		return "Head image is too large (max " + limit.HumanSize() + ").", true
	}
	return "", false
}
