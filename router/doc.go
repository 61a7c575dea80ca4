// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the NSS election API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, publisher)

# Endpoints

Health:

	GET /health

Sessions (public):

	POST /sessions/volunteer - Sign in with a student id
	POST /sessions/admin     - Sign in with admin credentials
	POST /admin/password     - Rotate the admin password (admin or admin-rotate)

Ballot (volunteer; candidate reads also allow admin):

	GET  /candidates            - Candidates grouped by position
	GET  /candidates/{id}/photo - Candidate photo bytes
	GET  /ballot                - Voted and open positions
	POST /ballot/votes          - Cast one vote

Administration (admin):

	GET    /admin/volunteers          - List volunteers
	POST   /admin/volunteers          - Add a volunteer
	POST   /admin/volunteers/import   - Bulk add from CSV
	DELETE /admin/volunteers/{id}     - Remove a volunteer and their votes
	POST   /admin/candidates          - Add a candidate (multipart form)
	DELETE /admin/candidates/{id}     - Remove a candidate without votes
	GET    /admin/results             - Tallies by position
	POST   /admin/results/recount     - Rebuild tallies from votes
	GET    /admin/export/{table}      - volunteers, candidates or results as CSV

Every route except health and root is wrapped in middleware.WithLogging.
*/
package router
