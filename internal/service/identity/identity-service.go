package identity

import (
	"BandDesk/entity"
	"BandDesk/internal/config"
	"BandDesk/internal/lib/sl"
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrNotConfigured reports that the administrator identity is missing
	// from the configuration. The service never becomes ready in that case.
	ErrNotConfigured = errors.New("administrator identity not configured")
	// ErrBadCredential reports a bootstrap credential that does not match.
	ErrBadCredential = errors.New("invalid bootstrap credential")
	// ErrUnknownToken reports a session token this service never issued.
	ErrUnknownToken = errors.New("unknown session token")
)

// Service resolves client sessions and grants role claims. The claim is
// computed exactly once, at sign-in; everything downstream checks the claim
// on the session rather than comparing identity strings.
type Service struct {
	adminIdentity  string
	bootstrapToken string
	ready          bool
	log            *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

func NewService(conf *config.Config, logger *slog.Logger) (*Service, error) {
	s := &Service{
		adminIdentity:  conf.Auth.AdminIdentity,
		bootstrapToken: conf.Auth.BootstrapToken,
		sessions:       make(map[string]*entity.Session),
		log:            logger.With(sl.Module("identity-service")),
	}

	if s.adminIdentity == "" || s.bootstrapToken == "" {
		return s, ErrNotConfigured
	}

	s.ready = true
	return s, nil
}

// Ready reports whether the service initialized with a complete
// configuration. A non-ready service refuses to resolve either role.
func (s *Service) Ready() bool {
	return s.ready
}

// Resolve signs a client in. A matching bootstrap credential yields the
// configured administrator identity carrying the administrator claim; an
// empty credential yields an anonymous submitter session. A present but
// wrong credential is rejected rather than downgraded.
func (s *Service) Resolve(credential string) (*entity.Session, error) {
	if !s.ready {
		return nil, ErrNotConfigured
	}

	var session *entity.Session
	switch {
	case credential == "":
		session = entity.NewAnonymousSession()
	case credential == s.bootstrapToken:
		session = entity.NewSession(s.adminIdentity, entity.AdministratorClaim)
	default:
		return nil, ErrBadCredential
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.log.Debug("session resolved",
		slog.String("claim", string(session.Claim)),
		slog.Bool("anonymous", session.Anonymous),
	)

	return session, nil
}

// AuthenticateByToken returns the session a bearer token belongs to.
func (s *Service) AuthenticateByToken(token string) (*entity.Session, error) {
	if !s.ready {
		return nil, ErrNotConfigured
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownToken
	}

	return session, nil
}

// Drop forgets a session, ending it server-side.
func (s *Service) Drop(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
