// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and writers for
// CSV and XLSX oscillation fixtures. Nothing here carries domain logic.
package shared
