package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"field-tech-api/internal/imaging"
	"field-tech-api/internal/model"
	"field-tech-api/internal/util"
)

const (
	// UploadsURLPrefix is where the router serves the storage root.
	UploadsURLPrefix = "/uploads/"

	photoDir   = "photos"
	profileDir = "profiles"
	thumbDir   = "thumbs"
)

type PhotoLimits struct {
	MaxPhotoBytes   int64
	MaxProfileBytes int64
}

// PhotoService stores installation photos and profile pictures on the file
// store and keeps their metadata rows in sync.
type PhotoService struct {
	photos  PhotoStore
	clients ClientStore
	users   UserStore
	files   FileStore
	audit   AuditRecorder
	limits  PhotoLimits
	logger  *slog.Logger
	now     func() time.Time
	newName func() string
}

func NewPhotoService(photos PhotoStore, clients ClientStore, users UserStore, files FileStore, audit AuditRecorder, limits PhotoLimits, logger *slog.Logger) *PhotoService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PhotoService{
		photos:  photos,
		clients: clients,
		users:   users,
		files:   files,
		audit:   audit,
		limits:  limits,
		logger:  logger,
		now:     time.Now,
		newName: func() string { return uuid.NewString() },
	}
}

// Upload decodes a base64 image, writes it with a JPEG thumbnail and
// records the metadata row. Files are removed again when the row cannot be
// written.
func (s *PhotoService) Upload(ctx context.Context, actor model.Actor, cpf string, payload string, kind string) (model.Photo, error) {
	cpf, err := NormalizeCPF(cpf)
	if err != nil {
		return model.Photo{}, err
	}

	exists, err := s.clients.Exists(ctx, cpf)
	if err != nil {
		return model.Photo{}, fmt.Errorf("upload photo: %w", err)
	}
	if !exists {
		return model.Photo{}, model.ErrClientNotFound
	}

	data, mimeType, err := s.decodeImage(payload, s.limits.MaxPhotoBytes)
	if err != nil {
		return model.Photo{}, err
	}

	name := s.newName()
	filename := name + util.ExtensionForMIME(mimeType)
	key := photoKey(cpf, filename)

	if err := s.files.WriteFile(key, data); err != nil {
		return model.Photo{}, fmt.Errorf("store photo: %w", err)
	}

	thumbKey := thumbnailKey(cpf, filename)
	thumbWritten := s.writeThumbnail(thumbKey, data)

	photo, err := s.photos.Insert(ctx, model.Photo{
		CPF:        cpf,
		Filename:   filename,
		Type:       model.ParsePhotoType(kind),
		MimeType:   mimeType,
		SizeBytes:  int64(len(data)),
		UploadedBy: actor.UserID,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		s.removeQuietly(key)
		if thumbWritten {
			s.removeQuietly(thumbKey)
		}
		return model.Photo{}, fmt.Errorf("save photo metadata: %w", err)
	}

	photo.URL = UploadsURLPrefix + key
	photo.ThumbURL = photo.URL
	if thumbWritten {
		photo.ThumbURL = UploadsURLPrefix + thumbKey
	}

	event := model.ActorEvent(actor, model.ActionPhotoUploaded, fmt.Sprintf("Foto %s enviada", photo.Type))
	event.EntityType = "client"
	event.EntityID = cpf
	event.Details = map[string]any{"photo_id": photo.ID, "type": photo.Type, "size_bytes": photo.SizeBytes}
	s.audit.Record(ctx, event)

	return photo, nil
}

func (s *PhotoService) List(ctx context.Context, cpf string) ([]model.Photo, error) {
	cpf, err := NormalizeCPF(cpf)
	if err != nil {
		return nil, err
	}

	photos, err := s.photos.ListByCPF(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	for i := range photos {
		s.attachURLs(&photos[i])
	}

	return photos, nil
}

// Delete removes the metadata row first; stale files are only logged.
func (s *PhotoService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid photo id", model.ErrInvalidInput)
	}

	photo, err := s.photos.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.photos.Delete(ctx, id); err != nil {
		return err
	}

	s.removeQuietly(photoKey(photo.CPF, photo.Filename))
	s.removeQuietly(thumbnailKey(photo.CPF, photo.Filename))

	event := model.ActorEvent(actor, model.ActionPhotoDeleted, fmt.Sprintf("Foto %d removida", id))
	event.EntityType = "client"
	event.EntityID = photo.CPF
	event.Details = map[string]any{"photo_id": id, "filename": photo.Filename}
	s.audit.Record(ctx, event)

	return nil
}

// SaveProfilePhoto stores a new profile picture for userID and returns
// its public URL. The previous picture is removed when it lives in the
// store.
func (s *PhotoService) SaveProfilePhoto(ctx context.Context, actor model.Actor, userID int64, payload string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	data, mimeType, err := s.decodeImage(payload, s.limits.MaxProfileBytes)
	if err != nil {
		return "", err
	}

	key := path.Join(profileDir, fmt.Sprint(userID), s.newName()+util.ExtensionForMIME(mimeType))
	if err := s.files.WriteFile(key, data); err != nil {
		return "", fmt.Errorf("store profile photo: %w", err)
	}

	url := UploadsURLPrefix + key
	if err := s.users.UpdatePhoto(ctx, userID, url, s.now().UTC()); err != nil {
		s.removeQuietly(key)
		return "", fmt.Errorf("update profile photo: %w", err)
	}

	if user.Photo != nil && strings.HasPrefix(*user.Photo, UploadsURLPrefix) {
		s.removeQuietly(strings.TrimPrefix(*user.Photo, UploadsURLPrefix))
	}

	event := model.ActorEvent(actor, model.ActionProfilePhotoUpdated, "Foto de perfil atualizada")
	event.EntityType = "user"
	event.EntityID = fmt.Sprint(userID)
	event.EntityName = user.FullName
	s.audit.Record(ctx, event)

	return url, nil
}

func (s *PhotoService) decodeImage(payload string, limit int64) ([]byte, string, error) {
	// Base64 inflates by 4/3; reject obviously oversized payloads before decoding.
	if limit > 0 && int64(len(payload)) > limit*4/3+1024 {
		return nil, "", model.ErrPhotoTooLarge
	}

	data, err := util.DecodeDataURL(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, "", model.ErrPhotoTooLarge
	}

	mimeType := util.DetectMIME(data)
	if !util.IsThumbnailMIME(mimeType) {
		return nil, "", model.ErrUnsupportedImage
	}
	if _, _, err := imaging.Inspect(data); err != nil {
		return nil, "", model.ErrUnsupportedImage
	}

	return data, mimeType, nil
}

func (s *PhotoService) writeThumbnail(key string, data []byte) bool {
	thumb, err := imaging.Thumbnail(data, imaging.DefaultThumbnailSize)
	if err != nil {
		s.logger.Warn("thumbnail generation failed", "key", key, "error", err)
		return false
	}
	if err := s.files.WriteFile(key, thumb); err != nil {
		s.logger.Warn("thumbnail write failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *PhotoService) attachURLs(photo *model.Photo) {
	key := photoKey(photo.CPF, photo.Filename)
	photo.URL = UploadsURLPrefix + key
	photo.ThumbURL = photo.URL

	thumbKey := thumbnailKey(photo.CPF, photo.Filename)
	if ok, err := s.files.Exists(thumbKey); err == nil && ok {
		photo.ThumbURL = UploadsURLPrefix + thumbKey
	}
}

func (s *PhotoService) removeQuietly(key string) {
	if err := s.files.Remove(key); err != nil {
		s.logger.Warn("failed to remove stored file", "key", key, "error", err)
	}
}

func photoKey(cpf string, filename string) string {
	return path.Join(photoDir, cpf, filename)
}

func thumbnailKey(cpf string, filename string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	return path.Join(photoDir, cpf, thumbDir, base+".jpg")
}
