// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

// PresentError renders "message: cause" for the user with secrets masked.
// A nil err renders the message alone.
func PresentError(message string, err error) string {
	if err == nil {
		return Mask(message)
	}
	return Mask(message + ": " + err.Error())
}
