package repository

import "github.com/jcastanov/planta-api/internal/domain/entity"

// TransferAuditRepository persiste el registro de auditoría de traslados.
type TransferAuditRepository interface {
	Create(a *entity.TransferAudit) error
}
