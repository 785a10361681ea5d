/*
SPDX-License-Identifier: GPL-3.0-or-later

Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com

This file is part of logcap.

logcap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

logcap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with logcap. If not, see https://www.gnu.org/licenses/.
*/

// internal/utils/tls.go
// tls.go - loads TLS config for the file provider server (optionally mTLS)

package utils

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// LoadServerTLSConfig loads the serving certificate and, when caFile is set,
// a CA pool that client certificates must chain to.
func LoadServerTLSConfig(certFile, keyFile, caFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server cert/key")
	}

	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if caFile == "" {
		return tlsCfg, nil
	}

	caPath := filepath.Clean(caFile)
	if !filepath.IsAbs(caPath) {
		abs, err := filepath.Abs(caPath)
		if err == nil {
			caPath = abs
		}
	}
	caCert, err := os.ReadFile(caPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CA file: %s", caPath)
	}
	caPool := x509.NewCertPool()
	if ok := caPool.AppendCertsFromPEM(caCert); !ok {
		return nil, errors.New("failed to parse CA cert")
	}
	tlsCfg.ClientCAs = caPool
	tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert

	return tlsCfg, nil
}
