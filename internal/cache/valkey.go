// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache owns the shared Valkey client and the cached read paths of
// the public pages.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions, submit tokens and the featured cache all share one client.
// Every call on it is a single short command.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = time.Second
	writeTimeout = time.Second
)

// ConnectValkey dials the Valkey server at host:port and returns the client
// once it answers PING.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:         net.JoinHostPort(host, port),
		Password:     password,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("reach valkey at %s: %w", opts.Addr, err)
	}

	slog.Info("valkey ready", "addr", opts.Addr)
	return client, nil
}
