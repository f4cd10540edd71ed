// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"

	"github.com/echoooaiglobal/echooo-backend-sub000/repository"
	"gorm.io/gorm"
)

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// withTransaction wraps fn in a database transaction. When the context
// already carries a transaction the call joins it instead of opening a
// nested one. Flows constructed without a database connection run fn
// directly so their logic can be exercised against in-memory repositories.
func withTransaction(ctx context.Context, db *gorm.DB, fn func(context.Context) error) error {
	if db == nil {
		return fn(ctx)
	}
	if tx, ok := ctx.Value(repository.TxContextKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return repository.WithTransaction(ctx, db, fn)
}
