package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"racketoutlet/pkg/domain"
)

// ProfileUpdate holds the editable profile fields. Nil/empty fields are left
// untouched by the server. Picture, when set, is uploaded as a multipart file.
type ProfileUpdate struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Address         string
	PhoneNumber     string
	DateOfBirth     string
	Preferences     map[string]any
	Picture         []byte
	PictureFilename string
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var u domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile/", nil, nil, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// UpdateProfile patches the profile, switching to multipart when a picture is
// attached.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, error) {
	body := multipartBody(update)
	var u domain.User
	if err := c.send(ctx, http.MethodPatch, "/api/users/profile/update/", nil, body, &u, false); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func multipartBody(update ProfileUpdate) bodyFunc {
	return func() (io.Reader, string, error) {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		fields := map[string]string{
			"username":      update.Username,
			"email":         update.Email,
			"first_name":    update.FirstName,
			"last_name":     update.LastName,
			"address":       update.Address,
			"phone_number":  update.PhoneNumber,
			"date_of_birth": update.DateOfBirth,
		}
		for name, value := range fields {
			if value == "" {
				continue
			}
			if err := w.WriteField(name, value); err != nil {
				return nil, "", err
			}
		}
		if update.Preferences != nil {
			prefs, err := json.Marshal(update.Preferences)
			if err != nil {
				return nil, "", err
			}
			if err := w.WriteField("preferences", string(prefs)); err != nil {
				return nil, "", err
			}
		}
		if len(update.Picture) > 0 {
			name := update.PictureFilename
			if name == "" {
				name = "profile_picture"
			}
			part, err := w.CreateFormFile("profile_picture", name)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(update.Picture); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return buf, w.FormDataContentType(), nil
	}
}
