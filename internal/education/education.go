// Package education holds the static reference text shown by the educate
// command.
package education

import "strings"

const introduction = `PrivacyPuzzle: a teaching tool for protecting confidential information
with authenticated cryptography and steganography embedded in digital puzzles.

The project demonstrates practical applications of modern information security
techniques for safeguarding sensitive data, combining:

  - Authenticated symmetric cryptography (AES-256-GCM) with PBKDF2 key
    derivation and unique per-message parameters.
  - Least-significant-bit steganography in procedurally generated PNG images,
    keeping the visible artwork unchanged to the eye.
  - Gamified elements (procedural nonograms) that invite active interaction
    before the protected content is reached.

The design promotes an understanding of defense-in-depth and of the
responsible human role in security processes.`

const steganographyRisks = `Limitations and risks of LSB steganography

Hiding data in the least significant bits of an image offers plausible
deniability against casual inspection, but it does not withstand advanced
steganalysis:

  - First- and higher-order statistical analysis (chi-square, RS analysis,
    Sample Pair analysis).
  - Detection using trained neural networks (YeNet, XuNet).
  - Histogram and frequency-domain noise analysis.
  - Any lossy re-encoding (JPEG, resizing, messaging apps that recompress
    images) destroys the hidden plane entirely.

Recommended practice:
  - Use steganography only as a complement to strong cryptography.
  - Avoid carriers with low entropy or well-known patterns.
  - Consider the operational context: metadata, distribution channels,
    and adversary profiling.
  - Follow Kerckhoffs' principle: security resides in the key, not in the
    secrecy of the method.

Steganography provides operational concealment, not cryptographic
confidentiality.`

const passwordBestPractices = `Password and key management (NIST SP 800-63B)

Password strength directly determines the security of the scheme:

Recommended requirements:
  - Minimum length of 16 characters.
  - Entropy of at least 64 bits, preferably 80 bits or more.
  - Varied composition: uppercase, lowercase, digits and symbols.
  - No predictable patterns, dictionary words or personal information.

Implementation in PrivacyPuzzle:
  - PBKDF2-HMAC-SHA256 with 100,000 iterations.
  - A fresh 128-bit salt from a CSPRNG for every message.
  - A fresh 96-bit nonce for every message; the 128-bit GCM tag is verified
    before any plaintext is released.

Complement these measures with FIPS 140-3 validated password managers and
multi-factor authentication where applicable.`

const privacyPrinciples = `Information security and privacy-by-design principles

  1. Confidentiality and integrity through proven authenticated cryptography.
  2. Defense-in-depth: several independent barriers (encryption and hiding).
  3. Data minimisation and need-to-know (GDPR Art. 5, ISO/IEC 27001).
  4. Transparency and auditability: open source, documentation, testing.
  5. Shared responsibility: robust tools require competent use.
  6. Resilience against adversaries of varying capability, stated in an
     explicit threat model.
  7. Continuous education as a pillar of sustainable cybersecurity.

PrivacyPuzzle serves as an educational resource for professionals, students
and researchers in cybersecurity and data protection.`

const footer = `PrivacyPuzzle, an open-source educational project promoting responsible digital privacy.`

func Introduction() string          { return introduction }
func SteganographyRisks() string    { return steganographyRisks }
func PasswordBestPractices() string { return passwordBestPractices }
func PrivacyPrinciples() string     { return privacyPrinciples }

// Full joins every section, separated by blank lines.
func Full() string {
	return strings.Join([]string{
		introduction,
		steganographyRisks,
		passwordBestPractices,
		privacyPrinciples,
		footer,
	}, "\n\n")
}
