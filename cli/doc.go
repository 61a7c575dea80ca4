// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cli builds the nss-election command tree.

	nss-election serve [-p PORT] [-d URL] [-t TYPE] ...
	nss-election results [--recount]
	nss-election export DIR
	nss-election admin-password NEW

serve parses its own flags through cliparse. The store commands take -d and -t from the
root command and read everything else from the environment.
*/
package cli
