// kmertyper: k-mer based haplotype multiplicity and frequency core.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/kmertyper/blob/master/LICENSE.txt>.

package utils

import (
	"os"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("utils")

var format = logging.MustStringFormatter(
	`%{time:15:04:05} %{shortfunc} | %{level:.6s} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter formats log records written to Backend
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

func init() {
	setBackend(logging.INFO)
}

func setBackend(level logging.Level) {
	leveled := logging.AddModuleLevel(BackendFormatter)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// SetupLogging installs BackendFormatter for all kmertyper loggers,
// filtered at the given level. Until it is called, messages below
// INFO are dropped.
func SetupLogging(level logging.Level) {
	setBackend(level)
	log.Infof("%v version %v (%v)", ProgramName, ProgramVersion, ProgramURL)
}
