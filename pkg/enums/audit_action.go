package enums

// AuditAction names a state-changing administrative action recorded in the
// audit log.
type AuditAction string

const (
	AuditActionPaymentVerified AuditAction = "PAYMENT_VERIFIED"
	AuditActionStatusChanged   AuditAction = "STATUS_CHANGED"
)

// AuditEntityType names the entity an audit entry refers to.
type AuditEntityType string

const (
	AuditEntityOrder AuditEntityType = "ORDER"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
