package application

import "expvar"

// Counters published under /api/debug/vars.
var (
	metricRegistrations = expvar.NewInt("auth_registrations_total")
	metricVerifications = expvar.NewInt("auth_verifications_total")
	metricLogins        = expvar.NewInt("auth_logins_total")
	metricLoginFailures = expvar.NewInt("auth_login_failures_total")
	metricRefreshes     = expvar.NewInt("auth_refreshes_total")
	metricAvatarUploads = expvar.NewInt("profile_avatar_uploads_total")
	metricPurged        = expvar.NewInt("cleanup_purged_rows_total")
)
