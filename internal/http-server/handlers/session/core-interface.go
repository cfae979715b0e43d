package session

import "BandDesk/entity"

type Core interface {
	IdentityReady() bool
	ResolveSession(credential string) (*entity.Session, error)
}
