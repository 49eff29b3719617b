package constants

// Cache key formats
const (
	// Dashboard service
	KeySalesRows     = "sales:rows:%s:%s"  // Format: sales:rows:{start}:{end}
	KeyDashboardView = "dashboard:view:%s" // Format: dashboard:view:{filter key}
)
