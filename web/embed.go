// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web ships the files served under /static/: the photo placeholder
// shown for listings without images, and the favicon.
package web

import "embed"

// StaticFS is rooted above static/; the router strips that prefix.
//
//go:embed all:static
var StaticFS embed.FS
