// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

var errNoSecurityTool = errors.New("keychain: security(1) is only available on macOS")

// securityBackend exists so NewManager compiles everywhere; it is never selected
// outside macOS.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) { return nil, errNoSecurityTool }

func (*securityBackend) Set(string, string) error   { return errNoSecurityTool }
func (*securityBackend) Get(string) (string, error) { return "", errNoSecurityTool }
func (*securityBackend) Delete(string) error        { return errNoSecurityTool }
