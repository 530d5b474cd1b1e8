package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/medinote/medinote-go/internal/api"
	"github.com/medinote/medinote-go/internal/cache"
	"github.com/medinote/medinote-go/internal/config"
	"github.com/medinote/medinote-go/internal/gateway"
	"github.com/medinote/medinote-go/internal/session"
	"github.com/medinote/medinote-go/pkg/authclient"
)

// App wires the session store, the auth client, the authenticated gateway
// and the local cache into one composition root. Nothing here is global;
// tear it down with Close.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	Store *session.Store
	Auth  *authclient.Client
	API   *api.Client
	Cache *cache.Store
}

// tokenRefresher adapts the auth client to the session store's Refresher.
type tokenRefresher struct {
	auth *authclient.Client
}

func (r tokenRefresher) Refresh(ctx context.Context, refreshToken string) (session.RefreshGrant, error) {
	resp, err := r.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return session.RefreshGrant{}, err
	}
	return session.RefreshGrant{AccessToken: resp.AccessToken, ExpiresIn: resp.ExpiresIn}, nil
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	auth := authclient.New(cfg.APIBaseURL)
	storage := session.NewFileStorage(cfg.SessionFile())
	store := session.NewStore(storage, tokenRefresher{auth: auth}, log)

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: gateway.NewTransport(store, log),
	}

	cacheStore, err := cache.Open(cfg.CacheFile())
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:   cfg,
		log:   log,
		Store: store,
		Auth:  auth,
		API:   api.New(cfg.APIBaseURL, httpClient),
		Cache: cacheStore,
	}, nil
}

// RestoreSession is the one call site for session bootstrap: run it once at
// startup, before any authenticated request.
func (a *App) RestoreSession() {
	if err := a.Store.LoadFromStorage(); err != nil {
		a.log.Warn("restore session", "error", err)
	}
}

// Login authenticates and installs the resulting session.
func (a *App) Login(ctx context.Context, email, password string) (session.User, error) {
	resp, err := a.Auth.Login(ctx, email, password)
	if err != nil {
		return session.User{}, err
	}

	user := session.User{
		ID:    resp.User.ID,
		Name:  resp.User.Name,
		Email: resp.User.Email,
		Role:  resp.User.Role,
	}
	a.Store.SetAuth(user, session.Tokens{
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		TokenType:    resp.Tokens.TokenType,
		ExpiresIn:    resp.Tokens.ExpiresIn,
	})
	return user, nil
}

// Logout invalidates the refresh token server-side (best effort), then
// clears the local session and the mirror cache.
func (a *App) Logout(ctx context.Context) error {
	if rt := a.Store.RefreshToken(); rt != "" {
		if err := a.Auth.Logout(ctx, rt); err != nil {
			a.log.Warn("server-side logout", "error", err)
		}
	}
	a.Store.ClearAuth()
	if err := a.Cache.Reset(); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	return nil
}

// Sync pulls the current health record from the backend into the local
// mirror cache, entity by entity.
func (a *App) Sync(ctx context.Context) error {
	profile, err := a.API.GetHealthProfile(ctx)
	if err != nil {
		if apiErr, ok := err.(*api.Error); !ok || apiErr.Status != http.StatusNotFound {
			return fmt.Errorf("sync profile: %w", err)
		}
	} else {
		err = a.Cache.SaveProfile(cache.Profile{
			Birth:     profile.Birth,
			Gender:    profile.Gender,
			BloodType: profile.BloodType,
			Height:    profile.Height,
			Weight:    profile.Weight,
			Drinking:  profile.Drinking,
			Smoking:   profile.Smoking,
		})
		if err != nil {
			return fmt.Errorf("cache profile: %w", err)
		}
	}

	allergies, err := a.API.GetAllergies(ctx)
	if err != nil {
		return fmt.Errorf("sync allergies: %w", err)
	}
	rows := make([]cache.Allergy, 0, len(allergies))
	for _, al := range allergies {
		rows = append(rows, cache.Allergy{ID: al.AllergyID, Name: al.AllergyName})
	}
	if err := a.Cache.ReplaceAllergies(rows); err != nil {
		return fmt.Errorf("cache allergies: %w", err)
	}

	chronics, err := a.API.GetChronics(ctx)
	if err != nil {
		return fmt.Errorf("sync chronic diseases: %w", err)
	}
	diseases := make([]cache.Disease, 0, len(chronics))
	for _, d := range chronics {
		diseases = append(diseases, cache.Disease{ID: d.ChronicID, Name: d.DiseaseName, Kind: cache.DiseaseChronic, Note: d.Note})
	}
	if err := a.Cache.ReplaceDiseases(cache.DiseaseChronic, diseases); err != nil {
		return fmt.Errorf("cache chronic diseases: %w", err)
	}

	acutes, err := a.API.GetAcutes(ctx)
	if err != nil {
		return fmt.Errorf("sync acute diseases: %w", err)
	}
	diseases = diseases[:0]
	for _, d := range acutes {
		diseases = append(diseases, cache.Disease{ID: d.AcuteID, Name: d.DiseaseName, Kind: cache.DiseaseAcute, Note: d.Note})
	}
	if err := a.Cache.ReplaceDiseases(cache.DiseaseAcute, diseases); err != nil {
		return fmt.Errorf("cache acute diseases: %w", err)
	}

	drugs, err := a.API.GetDrugs(ctx)
	if err != nil {
		return fmt.Errorf("sync drugs: %w", err)
	}
	drugRows := make([]cache.Drug, 0, len(drugs))
	for _, d := range drugs {
		drugRows = append(drugRows, cache.Drug{
			ID:             d.DrugID,
			MedName:        d.MedName,
			DosageForm:     d.DosageForm,
			Dose:           d.Dose,
			Unit:           d.Unit,
			Schedule:       strings.Join(d.Schedule, ","),
			CustomSchedule: d.CustomSchedule,
			StartDate:      d.StartDate,
			EndDate:        d.EndDate,
		})
	}
	if err := a.Cache.ReplaceDrugs(drugRows); err != nil {
		return fmt.Errorf("cache drugs: %w", err)
	}

	schedules, err := a.API.GetSchedules(ctx)
	if err != nil {
		return fmt.Errorf("sync schedules: %w", err)
	}
	schedRows := make([]cache.Schedule, 0, len(schedules))
	for _, s := range schedules {
		schedRows = append(schedRows, cache.Schedule{
			ID:       s.ID,
			Title:    s.Title,
			Type:     s.Type,
			Date:     s.Date,
			Time:     s.Time,
			Location: s.Location,
			Memo:     s.Memo,
		})
	}
	if err := a.Cache.ReplaceSchedules(schedRows); err != nil {
		return fmt.Errorf("cache schedules: %w", err)
	}

	return nil
}

func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.log.Warn("close cache", "error", err)
	}
}
