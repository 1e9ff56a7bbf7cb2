// Package cli implements the commands of the fndsa tool.
package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	// Pre-hash functions available through crypto.Hash.New.
	_ "crypto/sha256"
	_ "crypto/sha512"

	_ "golang.org/x/crypto/sha3"

	"github.com/pkg/errors"

	"github.com/benjivesterby/go-fn-dsa/fndsa"
	"github.com/benjivesterby/go-fn-dsa/internal/config"
	"github.com/benjivesterby/go-fn-dsa/internal/keystore"
	"github.com/benjivesterby/go-fn-dsa/internal/logging"
)

// ErrInvalidSignature is returned by the verify command when the
// signature does not match.
var ErrInvalidSignature = errors.New("signature verification failed")

// Runner executes one configured command.
type Runner struct {
	cfg    config.AppConfig
	log    logging.Logger
	keys   *keystore.Store
	stdin  io.Reader
	stdout io.Writer
}

// NewRunner creates a Runner. Messages are read from stdin when the
// configured input is "-"; results (signatures in hex, benchmark
// summaries) are written to stdout.
func NewRunner(cfg config.AppConfig, log logging.Logger,
	stdin io.Reader, stdout io.Writer) (*Runner, error) {

	keys, err := keystore.New(cfg.CacheSize, log)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		log:    log,
		keys:   keys,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

// Run executes the configured command. The run is bounded by the
// configured timeout.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	r.log.Debug("running command",
		logging.String("command", r.cfg.Command),
		logging.Uint("logn", r.cfg.LogN))

	switch r.cfg.Command {
	case config.CmdKeyGen:
		return r.keygen()
	case config.CmdSign:
		return r.sign()
	case config.CmdVerify:
		return r.verify()
	case config.CmdBench:
		return r.bench(ctx)
	}
	return errors.Errorf("unknown command %q", r.cfg.Command)
}

func (r *Runner) keygen() error {
	skey, vkey, err := fndsa.KeyGen(r.cfg.LogN, nil)
	if err != nil {
		return errors.Wrap(err, "key pair generation")
	}
	if err := keystore.WriteKey(r.cfg.KeyPath, skey, true); err != nil {
		return err
	}
	if err := keystore.WriteKey(r.cfg.PubPath, vkey, false); err != nil {
		return err
	}
	r.log.Info("key pair generated",
		logging.Uint("logn", r.cfg.LogN),
		logging.String("fingerprint", keystore.Fingerprint(vkey)),
		logging.String("key", r.cfg.KeyPath),
		logging.String("pub", r.cfg.PubPath))
	return nil
}

func (r *Runner) sign() error {
	skey, err := keystore.ReadKey(r.cfg.KeyPath)
	if err != nil {
		return err
	}
	esk, err := r.keys.Expanded(skey)
	if err != nil {
		return err
	}
	data, err := r.message()
	if err != nil {
		return err
	}
	sig, err := esk.Sign(nil, fndsa.DomainContext(r.cfg.Context), r.cfg.Hash(), data)
	if err != nil {
		return errors.Wrap(err, "signing")
	}

	if r.cfg.SigPath == "" {
		_, err = fmt.Fprintln(r.stdout, hex.EncodeToString(sig))
		return errors.Wrap(err, "writing signature")
	}
	if err := os.WriteFile(r.cfg.SigPath, sig, 0o644); err != nil {
		return errors.Wrapf(err, "writing signature %s", r.cfg.SigPath)
	}
	r.log.Info("message signed",
		logging.String("key", keystore.Fingerprint(esk.VerifyingKey())),
		logging.String("sig", r.cfg.SigPath),
		logging.Int("size", len(sig)))
	return nil
}

func (r *Runner) verify() error {
	vkey, err := keystore.ReadKey(r.cfg.PubPath)
	if err != nil {
		return err
	}
	sig, err := readSignature(r.cfg.SigPath)
	if err != nil {
		return err
	}
	data, err := r.message()
	if err != nil {
		return err
	}

	logn, _ := keystore.LogN(vkey)
	ctx := fndsa.DomainContext(r.cfg.Context)
	var ok bool
	if logn <= 8 {
		ok = fndsa.VerifyWeak(vkey, ctx, r.cfg.Hash(), data, sig)
	} else {
		ok = fndsa.Verify(vkey, ctx, r.cfg.Hash(), data, sig)
	}
	if !ok {
		return ErrInvalidSignature
	}
	r.log.Info("signature is valid",
		logging.String("key", keystore.Fingerprint(vkey)),
		logging.Uint("logn", logn))
	return nil
}

// Read the message and apply the configured pre-hash function.
func (r *Runner) message() ([]byte, error) {
	var data []byte
	var err error
	if r.cfg.Input == "-" {
		data, err = io.ReadAll(r.stdin)
	} else {
		data, err = os.ReadFile(r.cfg.Input)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading message")
	}

	id := r.cfg.Hash()
	if id == 0 {
		return data, nil
	}
	if !id.Available() {
		return nil, errors.Errorf("pre-hash function %s is not available", id)
	}
	h := id.New()
	h.Write(data)
	return h.Sum(nil), nil
}

// Read a signature file. Both the binary encoding and its hexadecimal
// form (as printed by the sign command) are accepted.
func readSignature(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading signature %s", path)
	}
	if sig, err := hex.DecodeString(string(bytes.TrimSpace(data))); err == nil {
		return sig, nil
	}
	return data, nil
}
