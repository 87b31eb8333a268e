package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"devconnect/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidDate     = errors.New("invalid date")
)

// ProfileStore is the persistence collaborator for profile documents.
// Mutations return the document as it is after the write, or nil when the
// user has no profile.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error)
	GetAll(ctx context.Context) ([]model.Profile, error)
	Upsert(ctx context.Context, userID primitive.ObjectID, patch model.ProfilePatch) (*model.Profile, error)
	AddExperience(ctx context.Context, userID primitive.ObjectID, exp model.Experience) (*model.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID primitive.ObjectID) (*model.Profile, error)
	AddEducation(ctx context.Context, userID primitive.ObjectID, edu model.Education) (*model.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID primitive.ObjectID) (*model.Profile, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

type ProfileService struct {
	profiles ProfileStore
	users    UserStore
	posts    PostStore
	events   EventPublisher
	logger   *zap.Logger
}

// UpsertProfileInput mirrors the patch semantics: nil means the field was
// not supplied and must not be touched.
type UpsertProfileInput struct {
	Company        *string
	Website        *string
	Location       *string
	Status         *string
	Bio            *string
	GithubUsername *string
	Skills         *string
	Youtube        *string
	Twitter        *string
	Facebook       *string
	Linkedin       *string
	Instagram      *string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

func NewProfileService(profiles ProfileStore, users UserStore, posts PostStore, events EventPublisher, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		posts:    posts,
		events:   events,
		logger:   logger,
	}
}

func (s *ProfileService) Me(ctx context.Context, userIDHex string) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return s.getExpanded(ctx, userID)
}

// ByUserID treats a malformed id the same as an id with no profile: the
// resource does not exist, it is not a server fault.
func (s *ProfileService) ByUserID(ctx context.Context, userIDHex string) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return s.getExpanded(ctx, userID)
}

func (s *ProfileService) All(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range profiles {
		if owner, ok := owners[profiles[i].UserID]; ok {
			profiles[i].User = &model.ProfileOwner{
				ID:     owner.ID,
				Name:   owner.Name,
				Avatar: owner.Avatar,
			}
		}
	}
	return profiles, nil
}

func (s *ProfileService) Upsert(ctx context.Context, userIDHex string, input UpsertProfileInput) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	patch := model.ProfilePatch{
		Company:        input.Company,
		Website:        input.Website,
		Location:       input.Location,
		Status:         input.Status,
		Bio:            input.Bio,
		GithubUsername: input.GithubUsername,
	}
	if input.Skills != nil {
		patch.Skills = SplitSkills(*input.Skills)
	}
	if social := buildSocial(input); social != nil {
		patch.Social = social
	}

	profile, err := s.profiles.Upsert(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	if err := s.expandOwner(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userIDHex string, input ExperienceInput) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	from, err := parseDate(input.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	to, err := parseOptionalDate(input.To)
	if err != nil {
		return nil, ErrInvalidDate
	}

	exp := model.Experience{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        from,
		To:          to,
		Current:     input.Current,
		Description: input.Description,
	}

	profile, err := s.profiles.AddExperience(ctx, userID, exp)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if err := s.expandOwner(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveExperience deletes the entry with the given id. An unknown or
// malformed id is a no-op: the profile is returned unchanged.
func (s *ProfileService) RemoveExperience(ctx context.Context, userIDHex, expIDHex string) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	expID, err := primitive.ObjectIDFromHex(expIDHex)
	if err != nil {
		return s.getExpanded(ctx, userID)
	}

	profile, err := s.profiles.RemoveExperience(ctx, userID, expID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if err := s.expandOwner(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, userIDHex string, input EducationInput) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	from, err := parseDate(input.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	to, err := parseOptionalDate(input.To)
	if err != nil {
		return nil, ErrInvalidDate
	}

	edu := model.Education{
		ID:           primitive.NewObjectID(),
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      input.Current,
		Description:  input.Description,
	}

	profile, err := s.profiles.AddEducation(ctx, userID, edu)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if err := s.expandOwner(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userIDHex, eduIDHex string) (*model.Profile, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	eduID, err := primitive.ObjectIDFromHex(eduIDHex)
	if err != nil {
		return s.getExpanded(ctx, userID)
	}

	profile, err := s.profiles.RemoveEducation(ctx, userID, eduID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if err := s.expandOwner(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete removes the profile, the user's posts, and the user itself.
// Absent documents are not errors; deleting twice has the same effect as
// deleting once.
func (s *ProfileService) Delete(ctx context.Context, userIDHex string) error {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return ErrUserNotFound
	}

	if err := s.posts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.publishEvent(ctx, model.AccountEvent{
		Kind:       model.EventProfileDeleted,
		UserID:     userIDHex,
		OccurredAt: time.Now(),
	})
	return nil
}

func (s *ProfileService) getExpanded(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if err := s.expandOwner(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) expandOwner(ctx context.Context, profile *model.Profile) error {
	owner, err := s.users.GetByID(ctx, profile.UserID)
	if err != nil {
		return err
	}
	if owner != nil {
		profile.User = &model.ProfileOwner{
			ID:     owner.ID,
			Name:   owner.Name,
			Avatar: owner.Avatar,
		}
	}
	return nil
}

func (s *ProfileService) publishEvent(ctx context.Context, event model.AccountEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish account event failed",
			zap.String("kind", event.Kind),
			zap.Error(err))
	}
}

func buildSocial(input UpsertProfileInput) *model.SocialLinks {
	links := []*string{input.Youtube, input.Twitter, input.Facebook, input.Linkedin, input.Instagram}
	supplied := false
	for _, l := range links {
		if l != nil {
			supplied = true
			break
		}
	}
	if !supplied {
		return nil
	}

	social := &model.SocialLinks{}
	if input.Youtube != nil {
		social.Youtube = *input.Youtube
	}
	if input.Twitter != nil {
		social.Twitter = *input.Twitter
	}
	if input.Facebook != nil {
		social.Facebook = *input.Facebook
	}
	if input.Linkedin != nil {
		social.Linkedin = *input.Linkedin
	}
	if input.Instagram != nil {
		social.Instagram = *input.Instagram
	}
	return social
}

// SplitSkills turns a comma-delimited skills string into trimmed, ordered
// tokens. Empty tokens are dropped.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if token := strings.TrimSpace(p); token != "" {
			skills = append(skills, token)
		}
	}
	return skills
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
