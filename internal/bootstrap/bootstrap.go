package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "confetti/internal/modules/auth/adapter/in"
	authoutadapter "confetti/internal/modules/auth/adapter/out"
	authdomain "confetti/internal/modules/auth/domain"
	authin "confetti/internal/modules/auth/port/in"
	authservice "confetti/internal/modules/auth/service"
	authusecase "confetti/internal/modules/auth/usecase"
	bookmarksinadapter "confetti/internal/modules/bookmarks/adapter/in"
	bookmarksoutadapter "confetti/internal/modules/bookmarks/adapter/out"
	bookmarksservice "confetti/internal/modules/bookmarks/service"
	bookmarksusecase "confetti/internal/modules/bookmarks/usecase"
	conferenceinadapter "confetti/internal/modules/conference/adapter/in"
	conferenceoutadapter "confetti/internal/modules/conference/adapter/out"
	conferencedomain "confetti/internal/modules/conference/domain"
	conferencedto "confetti/internal/modules/conference/dto"
	conferencein "confetti/internal/modules/conference/port/in"
	conferenceservice "confetti/internal/modules/conference/service"
	conferenceusecase "confetti/internal/modules/conference/usecase"
	homedomain "confetti/internal/modules/home/domain"
	homeservice "confetti/internal/modules/home/service"
	scheduleinadapter "confetti/internal/modules/schedule/adapter/in"
	scheduledomain "confetti/internal/modules/schedule/domain"
	scheduledto "confetti/internal/modules/schedule/dto"
	schedulein "confetti/internal/modules/schedule/port/in"
	scheduleservice "confetti/internal/modules/schedule/service"
	scheduleusecase "confetti/internal/modules/schedule/usecase"
	"confetti/internal/platform/clock"
	"confetti/internal/platform/config"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/id"
	"confetti/internal/platform/logging"
	"confetti/internal/platform/storage"
	"confetti/internal/platform/stream"
	uiapp "confetti/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	ConferenceCLI conferenceinadapter.CLIHandler
	AuthCLI       authinadapter.CLIHandler
	BookmarksCLI  bookmarksinadapter.CLIHandler
	ScheduleCLI   scheduleinadapter.CLIHandler

	// Conferences serves the read-only listings that print domain values.
	Conferences conferencein.Usecase

	db            *sql.DB
	conferenceSvc *conferenceservice.ConferenceService
	auth          authin.Usecase
	schedule      schedulein.Usecase
	source        *scheduleservice.Source
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	clk := clock.SystemClock{}

	store := conferenceoutadapter.NewSQLiteStore(db)
	conferenceSvc := conferenceservice.NewConferenceService(
		clk,
		conferenceoutadapter.NewYAMLScheduleReader(),
		store,
		store,
		logger.With("module", "conference"),
	)
	conferenceUC := conferenceusecase.NewInteractor(conferenceSvc)

	authUC := authusecase.NewInteractor(authservice.NewAuthService(
		clk,
		id.UUID{},
		authoutadapter.NewFileUserStore(cfg.UserFile),
		logger.With("module", "auth"),
	))

	source := scheduleservice.NewSource(conferenceUC, logger.With("module", "schedule"))
	scheduleUC := scheduleusecase.NewInteractor(source)

	bookmarksUC := bookmarksusecase.NewInteractor(bookmarksservice.NewAgendaService(
		clk,
		conferenceUC,
		bookmarksoutadapter.NewMarkdownAgendaWriter(),
		logger.With("module", "bookmarks"),
	))

	return &App{
		Config:        cfg,
		Logger:        logger,
		ConferenceCLI: conferenceinadapter.NewCLIHandler(conferenceUC),
		AuthCLI:       authinadapter.NewCLIHandler(authUC),
		BookmarksCLI:  bookmarksinadapter.NewCLIHandler(bookmarksUC),
		ScheduleCLI:   scheduleinadapter.NewCLIHandler(scheduleUC),
		db:            db,
		conferenceSvc: conferenceSvc,
		Conferences:   conferenceUC,
		auth:          authUC,
		schedule:      scheduleUC,
		source:        source,
	}, nil
}

// Close ends every live bookmark watch and releases the database.
func (a *App) Close() error {
	a.conferenceSvc.Close()
	return a.db.Close()
}

// BookmarksScreen is the state of a bookmarks component for one conference,
// seen by whoever is signed in.
type BookmarksScreen struct {
	*bookmarksservice.Component
	Location *time.Location
}

// WatchBookmarks starts a bookmarks component outside of the TUI. It lives
// until ctx ends.
func (a *App) WatchBookmarks(ctx context.Context, conferenceID string, nav uiapp.Navigator) (BookmarksScreen, error) {
	conf, loc, err := a.conference(ctx, conferenceID)
	if err != nil {
		return BookmarksScreen{}, err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return BookmarksScreen{}, err
	}
	return BookmarksScreen{
		Component: a.bookmarksComponent(ctx, conf.ID, user, a.ticker(loc), nav),
		Location:  loc,
	}, nil
}

// OpenHome builds the home component for a conference. It implements
// uiapp.HomeOpener.
func (a *App) OpenHome(ctx context.Context, conferenceID string, nav uiapp.Navigator) (*homeservice.Component, error) {
	conf, loc, err := a.conference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	userID := ""
	if user != nil {
		userID = user.UID
	}
	ticker := a.ticker(loc)

	factory := func(childCtx context.Context, tab homedomain.Tab) homedomain.Child {
		switch tab {
		case homedomain.TabSpeakers:
			return homeservice.NewPage(childCtx, func(ctx context.Context) ([]conferencedomain.Speaker, error) {
				return a.Conferences.ListSpeakers(ctx, conf.ID)
			})
		case homedomain.TabBookmarks:
			return a.bookmarksComponent(childCtx, conf.ID, user, ticker, nav)
		case homedomain.TabVenue:
			return homeservice.NewPage(childCtx, func(ctx context.Context) (conferencedto.ConferenceOutput, error) {
				return a.Conferences.GetConference(ctx, conf.ID)
			})
		default:
			return scheduleservice.NewComponent(childCtx, a.source, conf.ID, userID, nav.OnSessionSelected, a.Logger.With("component", "schedule"))
		}
	}

	a.Logger.Info("home opened", "conference", conf.ID, "signed_in", user != nil)
	return homeservice.NewComponent(ctx, homeservice.Deps{
		Conference:         conf.ID,
		Factory:            factory,
		OnSwitchConference: nav.OnSwitchConference,
		Logger:             a.Logger.With("component", "home"),
	}), nil
}

func (a *App) bookmarksComponent(ctx context.Context, conferenceID string, user *authdomain.User, ticker clock.Ticker, nav uiapp.Navigator) *bookmarksservice.Component {
	userID := ""
	if user != nil {
		userID = user.UID
	}
	sessions := func(ctx context.Context) stream.Observable[scheduledomain.State] {
		return a.schedule.Watch(ctx, scheduledto.WatchInput{ConferenceID: conferenceID, UserID: userID})
	}
	return bookmarksservice.NewComponent(ctx, bookmarksservice.Deps{
		Conference:        conferenceID,
		User:              user,
		Sessions:          sessions,
		Clock:             ticker,
		Repository:        a.Conferences,
		OnSessionSelected: nav.OnSessionSelected,
		OnSignIn:          nav.OnSignIn,
		Logger:            a.Logger.With("component", "bookmarks"),
	})
}

func (a *App) ticker(loc *time.Location) clock.Ticker {
	return clock.Ticker{Clock: clock.SystemClock{Location: loc}, Interval: a.Config.ClockInterval}
}

func (a *App) conference(ctx context.Context, conferenceID string) (conferencedto.ConferenceOutput, *time.Location, error) {
	if conferenceID == "" {
		return conferencedto.ConferenceOutput{}, nil, apperrors.ErrConferenceRequired
	}
	conf, err := a.Conferences.GetConference(ctx, conferenceID)
	if err != nil {
		return conferencedto.ConferenceOutput{}, nil, err
	}
	loc := time.Local
	if conf.TimeZone != "" {
		if loc, err = time.LoadLocation(conf.TimeZone); err != nil {
			return conferencedto.ConferenceOutput{}, nil, fmt.Errorf("conference %s time zone: %w", conf.ID, err)
		}
	}
	return conf, loc, nil
}

// currentUser is nil when nobody is signed in.
func (a *App) currentUser(ctx context.Context) (*authdomain.User, error) {
	user, err := a.auth.Current(ctx)
	if errors.Is(err, apperrors.ErrNotSignedIn) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(app.Conferences, app.AuthCLI, app.OpenHome, app.Config.Conference)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if m, ok := final.(uiapp.Model); ok {
		m.Close()
	}
	return err
}
