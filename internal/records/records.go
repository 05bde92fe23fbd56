// Package records imports all record decoder packages to trigger their
// init() registration. Import this package for side effects only.
package records

import (
	// Import all decoder packages to register them with the registry.
	_ "cifparse/internal/records/airport"
	_ "cifparse/internal/records/mora"
	_ "cifparse/internal/records/ndbnavaid"
	_ "cifparse/internal/records/vhfnavaid"
	_ "cifparse/internal/records/waypoint"
)
