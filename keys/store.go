package keys

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fiddotdev/hub-go/hexutil"
)

var (
	ErrInvalidSeed = errors.New("keys: invalid seed")
	ErrInvalidName = errors.New("keys: invalid name")
	ErrNoSigner    = errors.New("keys: no signer provided")
)

// KeyStore keeps Ed25519 seeds on the local filesystem, one hex file per key:
//
//	<Directory>/<name>/root.key
//	<Directory>/<name>/apps/<app>.key
//
// Seeds are written 0600 inside 0700 directories. Only Ed25519 is supported.
type KeyStore struct {
	Directory string
}

// KeyEntry lists a root key and the app keys derived from it.
type KeyEntry struct {
	Name string
	Apps []string
}

func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".hubctl", "keys"), nil
}

// NewKeyStore opens a store rooted at directory, or DefaultDirectory when empty.
func NewKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) rootPath(name string) string {
	return filepath.Join(ks.Directory, name, "root.key")
}

func (ks *KeyStore) appPath(name, app string) string {
	return filepath.Join(ks.Directory, name, "apps", app+".key")
}

// CheckName accepts key and app names made of [A-Za-z0-9_-].
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("%w: invalid character %q in %q", ErrInvalidName, char, name)
	}
	return nil
}

// ParseSeedHex decodes a 32-byte hex seed (optional 0x prefix).
func ParseSeedHex(seedHex string) ([]byte, error) {
	data, err := hexutil.HexToBytes(seedHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if len(data) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSeed, ed25519.SeedSize, len(data))
	}
	return data, nil
}

func saveSeed(filePath string, seed []byte, overwrite bool) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("%w: expected %d bytes", ErrInvalidSeed, ed25519.SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(hexutil.BytesToHex(seed) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func loadSeed(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(string(data))
}

// Init stores seed as the root key for name and returns its public key hex.
// An existing key is only replaced when overwrite is set.
func (ks *KeyStore) Init(name string, seed []byte, overwrite bool) (pubHex string, filePath string, err error) {
	if err := CheckName(name); err != nil {
		return "", "", err
	}
	filePath = ks.rootPath(name)
	if err := saveSeed(filePath, seed, overwrite); err != nil {
		return "", "", err
	}
	pubHex, err = PublicKeyHex(seed)
	return pubHex, filePath, err
}

// Derive creates the app key for name from its root key.
func (ks *KeyStore) Derive(name, app string, overwrite bool) (pubHex string, filePath string, err error) {
	if err := CheckName(name); err != nil {
		return "", "", err
	}
	rootSeed, err := loadSeed(ks.rootPath(name))
	if err != nil {
		return "", "", err
	}
	appSeed, err := DeriveSignerSeed(rootSeed, app)
	if err != nil {
		return "", "", err
	}
	filePath = ks.appPath(name, app)
	if err := saveSeed(filePath, appSeed, overwrite); err != nil {
		return "", "", err
	}
	pubHex, err = PublicKeyHex(appSeed)
	return pubHex, filePath, err
}

// Export returns the public key hex for name, or for its app key when app is set.
func (ks *KeyStore) Export(name, app string) (string, error) {
	seed, err := ks.Load("", name, app, "")
	if err != nil {
		return "", err
	}
	return PublicKeyHex(seed)
}

// Load resolves a seed from, in order of precedence: an inline hex seed, a key
// file, or a stored name (and optional app).
func (ks *KeyStore) Load(seedHex, name, app, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return loadSeed(keyFile)
	}
	if name == "" {
		return nil, ErrNoSigner
	}
	if err := CheckName(name); err != nil {
		return nil, err
	}
	if app == "" {
		return loadSeed(ks.rootPath(name))
	}
	if err := CheckName(app); err != nil {
		return nil, err
	}
	return loadSeed(ks.appPath(name, app))
}

// List returns stored keys sorted by name, each with its sorted app keys.
// A missing directory yields no entries.
func (ks *KeyStore) List() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []KeyEntry
	for _, name := range names {
		appEntries, rerr := os.ReadDir(filepath.Join(ks.Directory, name, "apps"))
		var apps []string
		if rerr == nil {
			for _, appEntry := range appEntries {
				if appEntry.IsDir() {
					continue
				}
				if strings.HasSuffix(appEntry.Name(), ".key") {
					apps = append(apps, strings.TrimSuffix(appEntry.Name(), ".key"))
				}
			}
			sort.Strings(apps)
		}
		result = append(result, KeyEntry{Name: name, Apps: apps})
	}
	return result, nil
}
