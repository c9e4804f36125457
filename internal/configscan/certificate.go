// Package configscan implements the configuration/certificate engine
// (S4), grounded on the original implementation's scanners/config
// package.
package configscan

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pqcshield/scanner/internal/model"
)

const (
	pemPeekBytes       = 4096
	certSubprocessTimeout = 5 * time.Second
)

var privateKeyMarkers = []string{
	"BEGIN ENCRYPTED PRIVATE KEY",
	"BEGIN RSA PRIVATE KEY",
	"BEGIN EC PRIVATE KEY",
	"BEGIN PRIVATE KEY",
}

var encryptionHeaderMarkers = []string{
	"BEGIN ENCRYPTED PRIVATE KEY",
	"PROC-TYPE: 4,ENCRYPTED",
	"DEK-INFO:",
}

const certMarker = "BEGIN CERTIFICATE"

// analyzeCertificate implements the pre-peek/skip/subprocess sequence of
// spec §4.5, critically never attaching an inherited stdin to the
// subprocess so an encrypted key can never block on a passphrase prompt.
func analyzeCertificate(path, ext string) []model.ConfigFinding {
	if reason := shouldSkipCertFile(path, ext); reason != "" {
		return []model.ConfigFinding{certSkippedFinding(reason)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), certSubprocessTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "openssl", "x509", "-in", path, "-text", "-noout")
	cmd.Stdin = nil
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return []model.ConfigFinding{certSkippedFinding("openssl_timeout")}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return []model.ConfigFinding{certSkippedFinding("openssl_not_available")}
	}
	if err != nil {
		return []model.ConfigFinding{certSkippedFinding("openssl_parse_failed")}
	}

	text := stdout.String()
	switch {
	case strings.Contains(text, "RSA Public Key") || strings.Contains(text, "rsaEncryption"):
		return []model.ConfigFinding{{
			Type:           "rsa_certificate",
			Severity:       "HIGH",
			Description:    "RSA certificate detected - vulnerable to quantum attacks.",
			Recommendation: "Replace with a PQC-safe certificate (e.g., Dilithium signatures).",
		}}
	case strings.Contains(text, "EC Public Key") || strings.Contains(text, "ecPublicKey"):
		return []model.ConfigFinding{{
			Type:           "ecc_certificate",
			Severity:       "HIGH",
			Description:    "ECC certificate detected - vulnerable to quantum attacks.",
			Recommendation: "Replace with a PQC-safe certificate.",
		}}
	default:
		return nil
	}
}

func certSkippedFinding(reason string) model.ConfigFinding {
	return model.ConfigFinding{
		Type:        "cert_skipped",
		Severity:    "INFO",
		Description: "Certificate analysis skipped.",
		Meta:        map[string]string{"skip_reason": reason},
	}
}

func shouldSkipCertFile(path, ext string) string {
	if ext == ".key" {
		return "private_key_file"
	}

	header, ok := peekPEMHeader(path)
	if !ok {
		return "cert_read_failed"
	}

	upper := strings.ToUpper(header)
	if containsAny(upper, privateKeyMarkers) {
		if containsAny(upper, encryptionHeaderMarkers) {
			return "encrypted_private_key_requires_passphrase"
		}
		return "private_key_present"
	}

	if ext == ".pem" && !strings.Contains(upper, certMarker) {
		return "pem_not_certificate"
	}

	return ""
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func peekPEMHeader(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	buf := make([]byte, pemPeekBytes)
	n, _ := f.Read(buf)
	return string(buf[:n]), true
}
