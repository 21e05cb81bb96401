package rbac

import (
	"sync"

	"go-thread/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	Permissions(role domain.Role) ([]PermissionResponse, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(string(req.Role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(req.Role)),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}
	s.logger.Debug("rbac enforce result",
		zap.String("role", string(req.Role)),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(role domain.Role) ([]PermissionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.enforcer.GetFilteredPolicy(0, string(role))
	if err != nil {
		return nil, err
	}
	out := make([]PermissionResponse, 0, len(rules))
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		out = append(out, PermissionResponse{Resource: r[1], Action: r[2]})
	}
	return out, nil
}
