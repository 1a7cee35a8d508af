// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

var (
	ErrInvalidStake      = errors.New("ErrInvalidStake")
	ErrStakeMismatch     = errors.New("ErrStakeMismatch")
	ErrGameUnavailable   = errors.New("ErrGameUnavailable")
	ErrWrongPhase        = errors.New("ErrWrongPhase")
	ErrNotAParticipant   = errors.New("ErrNotAParticipant")
	ErrAlreadyCommitted  = errors.New("ErrAlreadyCommitted")
	ErrAlreadyRevealed   = errors.New("ErrAlreadyRevealed")
	ErrInvalidCommitment = errors.New("ErrInvalidCommitment")
	ErrInvalidMove       = errors.New("ErrInvalidMove")
	ErrGameNotFound      = errors.New("ErrGameNotFound")
	ErrSelfPlay          = errors.New("ErrSelfPlay")
	ErrNonPayable        = errors.New("ErrNonPayable")
	ErrModeDisabled      = errors.New("ErrModeDisabled")
	ErrInvalidMode       = errors.New("ErrInvalidMode")
	ErrInvalidStatus     = errors.New("ErrInvalidStatus")
)
