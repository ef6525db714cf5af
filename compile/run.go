// Package compile implements the compile subcommand.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/deftliang/grass"
	"github.com/deftliang/grass/css"
	"github.com/deftliang/grass/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	// command line overrides configuration
	if cmd.IsSet("style") {
		env.Cfg.Compiler.Style = cmd.String("style")
	}
	if cmd.IsSet("precision") {
		env.Cfg.Compiler.Precision = int(cmd.Int("precision"))
	}
	if cmd.IsSet("source-map") {
		env.Cfg.Compiler.SourceMap = cmd.Bool("source-map")
	}
	if cmd.IsSet("quiet-deps") {
		env.Cfg.Compiler.QuietDeps = cmd.Bool("quiet-deps")
	}
	if cmd.IsSet("no-legacy-import") {
		env.Cfg.Compiler.LegacyImport = !cmd.Bool("no-legacy-import")
	}
	env.Cfg.Compiler.LoadPaths = append(env.Cfg.Compiler.LoadPaths, cmd.StringSlice("load-path")...)
	env.Overwrite = cmd.Bool("overwrite")
	env.ToStdout = cmd.Bool("stdout") || (len(dst) == 0 && isFile(src))

	style, err := css.ParseStyle(env.Cfg.Compiler.Style)
	if err != nil {
		return fmt.Errorf("unable to interpret requested style: %w", err)
	}

	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("style", style))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, style, log)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// process determines the input type (directory or single file) and
// compiles accordingly.
func process(ctx context.Context, src, dst string, style css.Style, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		return processDir(ctx, src, dst, style, log)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	out := dst
	if !strings.EqualFold(filepath.Ext(dst), ".css") {
		out = filepath.Join(dst, outputName(filepath.Base(src)))
	}
	return compileSheet(ctx, src, out, style, log)
}

// processDir walks the directory tree compiling every scss file which
// is not a partial, keeping the directory structure under dst.
func processDir(ctx context.Context, dir, dst string, style css.Style, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		base := filepath.Base(path)
		if !strings.EqualFold(filepath.Ext(base), ".scss") || strings.HasPrefix(base, "_") {
			return nil
		}

		count++

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		out := filepath.Join(dst, outputName(rel))
		if err := compileSheet(ctx, path, out, style, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

func outputName(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".css"
}

// compileSheet compiles a single scss file into out.
func compileSheet(ctx context.Context, src, out string, style css.Style, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	log.Info("Compilation starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Compilation ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", out), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("compilation panic: %v", r)
		} else {
			log.Info("Compilation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", out))
		}
	}(time.Now())

	roots := append([]string{filepath.Dir(src)}, env.Cfg.Compiler.LoadPaths...)

	// Store compilation input for debugging
	if env.Rpt != nil {
		env.Rpt.Store("source-"+filepath.Base(src), src)
	}

	res, err := grass.CompileFile(src, grass.Options{
		Style:                style,
		Precision:            env.Cfg.Compiler.Precision,
		QuietDeps:            env.Cfg.Compiler.QuietDeps,
		DisallowLegacyImport: !env.Cfg.Compiler.LegacyImport,
		SourceMap:            env.Cfg.Compiler.SourceMap && !env.ToStdout,
		Seed:                 env.Cfg.Compiler.Seed,
		Loader:               &grass.FileLoader{Roots: roots, Logger: log},
		Logger:               log,
	})
	if err != nil {
		return fmt.Errorf("unable to compile (%s): %w", src, err)
	}

	for _, w := range res.Warnings {
		log.Warn(w.Message, zap.String("at", w.Primary.String()))
	}

	if env.ToStdout {
		_, err = os.Stdout.WriteString(res.CSS)
		return err
	}

	if _, err := os.Stat(out); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", out)
		}
		log.Warn("Overwriting existing file", zap.String("file", out))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	text := res.CSS
	if env.Cfg.Compiler.SourceMap {
		data, err := css.EncodeSourceMap(filepath.Base(out), res.SourceMap)
		if err != nil {
			return fmt.Errorf("unable to encode source map: %w", err)
		}
		if err := os.WriteFile(out+".map", data, 0644); err != nil {
			return fmt.Errorf("unable to write source map: %w", err)
		}
		text += "\n/*# sourceMappingURL=" + filepath.Base(out) + ".map */\n"
	}

	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	// Store compilation result for debugging
	if env.Rpt != nil {
		env.Rpt.Store("result-"+filepath.Base(out), out)
	}
	return nil
}
