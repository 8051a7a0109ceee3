package microsoft

import (
	"context"
	"errors"
	"strings"
)

// UserInfo contains the user's basic profile information from Microsoft Graph.
type UserInfo struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Surname           string `json:"surname"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Email returns the user's email address, falling back to the principal name
// when mail is not set.
func (u *UserInfo) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// ErrNoFamilyName indicates the profile carries neither a surname nor a
// display name to derive one from.
var ErrNoFamilyName = errors.New("microsoft: profile has no family name")

// ProfileService reads the signed-in user's profile.
type ProfileService struct {
	client *Client
}

// NewProfileService creates a profile service over the given client.
func NewProfileService(client *Client) *ProfileService {
	return &ProfileService{client: client}
}

// Me fetches the signed-in user's profile.
func (s *ProfileService) Me(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	path := "/me?$select=id,displayName,surname,mail,userPrincipalName"
	if err := s.client.DoJSON(ctx, "GET", path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FamilyName resolves the user's family name for derived meeting subjects.
// It prefers the profile surname and falls back to the last token of the
// display name.
func (s *ProfileService) FamilyName(ctx context.Context) (string, error) {
	info, err := s.Me(ctx)
	if err != nil {
		return "", err
	}

	if name := strings.TrimSpace(info.Surname); name != "" {
		return name, nil
	}
	if fields := strings.Fields(info.DisplayName); len(fields) > 0 {
		return fields[len(fields)-1], nil
	}
	return "", ErrNoFamilyName
}
