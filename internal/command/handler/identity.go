package command

import (
	"context"
	"fmt"
	"time"

	"wanderlust/internal/dto"
	"wanderlust/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type IdentityHandler struct {
	logger          *zap.Logger
	authService     *service.AuthService
	identityService *service.IdentityService
}

func NewIdentityHandler(
	logger *zap.Logger,
	authService *service.AuthService,
	identityService *service.IdentityService,
) *IdentityHandler {
	return &IdentityHandler{
		logger:          logger,
		authService:     authService,
		identityService: identityService,
	}
}

// SeedAdmin 建立或提升管理員帳號
func (handler *IdentityHandler) SeedAdmin(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	identity, created, err := handler.authService.SeedAdmin(ctx, &dto.RegisterDto{Name: name, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		cmd.Printf("admin %s created (%s)\n", identity.Email, identity.ID.Hex())
	} else {
		cmd.Printf("identity %s promoted to admin (%s)\n", identity.Email, identity.ID.Hex())
	}
	handler.logger.Info("seed admin finished", zap.String("identity_id", identity.ID.Hex()), zap.Bool("created", created))
	return nil
}

// ReconcileProfiles 立即執行一次 profileComplete 修正
func (handler *IdentityHandler) ReconcileProfiles(cmd *cobra.Command, args []string) error {
	scanned, repaired, err := handler.identityService.ReconcileProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconcile profiles: %w", err)
	}
	cmd.Printf("scanned %d identities, repaired %d\n", scanned, repaired)
	return nil
}
