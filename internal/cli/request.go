package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/mande/config"
	mande "github.com/wesleyorama2/mande/http"
	"github.com/wesleyorama2/mande/internal/output"
	zaplog "github.com/wesleyorama2/mande/logger/zap"
	"github.com/wesleyorama2/mande/pkg/jsonpath"
	"github.com/wesleyorama2/mande/pkg/jsonschema"
)

// verb describes one request subcommand.
type verb struct {
	name     string
	method   string
	withBody bool
}

var verbs = []verb{
	{name: "get", method: http.MethodGet},
	{name: "post", method: http.MethodPost, withBody: true},
	{name: "put", method: http.MethodPut, withBody: true},
	{name: "patch", method: http.MethodPatch, withBody: true},
	{name: "delete", method: http.MethodDelete},
}

// requestOptions holds the per-verb flags.
type requestOptions struct {
	headers     []string
	unset       []string
	query       []string
	as          string
	extract     []string
	schema      string
	repeat      int
	concurrency int
	timeout     time.Duration

	data     string
	jsonData string
	form     []string
}

func newVerbCmd(root *rootOptions, v verb) *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:   v.name + " [TARGET]",
		Short: fmt.Sprintf("Send a %s request", v.method),
		Long: fmt.Sprintf(`Send a %s request.

TARGET is a full URL, or a path joined to the baseUrl of the config file.
Without TARGET the request goes to baseUrl itself.`, v.method),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runRequest(cmd, root, v, opts, target)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "Header 'Name: value' (can be used multiple times)")
	flags.StringArrayVar(&opts.unset, "unset-header", nil, "Remove a header set by the config or the defaults")
	flags.StringArrayVarP(&opts.query, "query", "q", nil, "Query parameter key=value (can be used multiple times)")
	flags.StringVar(&opts.as, "as", "", "Response mode: json, text or response")
	flags.StringArrayVar(&opts.extract, "extract", nil, "Print the value at a JSONPath instead of the whole result")
	flags.StringVar(&opts.schema, "schema", "", "Validate the result against a JSON schema file or a schema named in the config")
	flags.IntVar(&opts.repeat, "repeat", 1, "Send the request N times and print a latency summary")
	flags.IntVar(&opts.concurrency, "concurrency", 1, "Concurrent requests when repeating")
	flags.DurationVarP(&opts.timeout, "timeout", "t", 30*time.Second, "Request timeout")

	if v.withBody {
		flags.StringVarP(&opts.data, "data", "d", "", "Raw request body, sent as is")
		flags.StringVarP(&opts.jsonData, "json", "j", "", "JSON request data")
		flags.StringArrayVarP(&opts.form, "form", "F", nil, "Multipart field key=value or key=@file")
	}

	return cmd
}

func runRequest(cmd *cobra.Command, root *rootOptions, v verb, opts *requestOptions, target string) error {
	out := cmd.OutOrStdout()

	format, err := output.ParseFormat(root.output)
	if err != nil {
		return err
	}
	noColor := !output.UseColor(out, root.noColor)
	formatter := output.GetFormatter(format, root.verbose, noColor)

	lg, err := zaplog.New(root.logLevel, root.logDev)
	if err != nil {
		return err
	}
	defer lg.Sync()

	file, profile, err := loadProfile(root)
	if err != nil {
		return err
	}

	base, path, query, err := resolveTarget(target, profile.BaseURL)
	if err != nil {
		return err
	}

	callOpts, data, err := opts.build(v.withBody, query)
	if err != nil {
		return err
	}
	if opts.repeat < 1 || opts.concurrency < 1 {
		return fmt.Errorf("--repeat and --concurrency must be at least 1")
	}

	var schema *jsonschema.Schema
	if opts.schema != "" {
		if schema, err = loadSchema(file, opts.schema); err != nil {
			return err
		}
	}

	ex := &output.Exchange{}
	tr := newPrintingTransport(mande.NewHTTPTransport(), formatter, out, ex)
	api := mande.New(base,
		mande.WithOptions(profile.Options()),
		mande.WithTransport(tr),
		mande.WithLogger(lg),
	)

	send := func() (any, error) {
		ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
		defer cancel()
		return dispatch(ctx, api, v, path, data, callOpts)
	}

	var latency *output.LatencyRecorder
	if opts.repeat > 1 {
		latency = output.NewLatencyRecorder()
	}

	start := time.Now()
	result, err := send()
	if latency != nil {
		latency.Record(time.Since(start), err != nil)
		tr.silence()
		repeat(opts.repeat-1, opts.concurrency, latency, send)
		ex.Latency = latency.Summary()
	}

	if err != nil {
		lg.Debugw("request failed", "method", v.method, "error", err)
		ex.Error = output.NewErrorData(err)
		return report(out, formatter, ex)
	}

	mode := responseMode(callOpts, profile)
	value := output.ResultValue(result)
	ex.Result = value

	if schema != nil {
		var errs jsonschema.ValidationErrors
		if s, ok := value.(string); ok && mode == mande.ResponseText {
			errs = schema.ValidateJSON(s)
		} else {
			errs = schema.Validate(value)
		}
		if len(errs) > 0 {
			ex.Error = &output.ErrorData{Message: "schema validation failed: " + errs.Error()}
			return report(out, formatter, ex)
		}
	}

	if len(opts.extract) > 0 {
		extracted, err := extract(value, mode, opts.extract)
		if err != nil {
			ex.Error = &output.ErrorData{Message: err.Error()}
			return report(out, formatter, ex)
		}
		ex.Extracted = extracted
	}

	fmt.Fprint(out, formatter.FormatExchange(ex))
	return nil
}

// report prints a failed exchange.
func report(out io.Writer, formatter output.FormatProvider, ex *output.Exchange) error {
	fmt.Fprint(out, formatter.FormatExchange(ex))
	return errReported
}

// dispatch calls the verb method matching v.
func dispatch(ctx context.Context, api *mande.Instance, v verb, path string, data any, opts *mande.Options) (any, error) {
	switch v.method {
	case http.MethodGet:
		return api.Get(ctx, path, opts)
	case http.MethodDelete:
		return api.Delete(ctx, path, opts)
	case http.MethodPost:
		return api.Post(ctx, path, data, opts)
	case http.MethodPut:
		return api.Put(ctx, path, data, opts)
	case http.MethodPatch:
		return api.Patch(ctx, path, data, opts)
	}
	return api.Request(ctx, v.method, path, data, opts)
}

// repeat sends n more requests from c workers, recording each latency.
func repeat(n, c int, latency *output.LatencyRecorder, send func() (any, error)) {
	if n <= 0 {
		return
	}
	if c > n {
		c = n
	}

	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < c; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				start := time.Now()
				_, err := send()
				latency.Record(time.Since(start), err != nil)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
}

// build turns the flags into the per-call options and request data.
func (o *requestOptions) build(withBody bool, query *mande.Query) (*mande.Options, any, error) {
	headers, err := parseHeaders(o.headers, o.unset)
	if err != nil {
		return nil, nil, err
	}
	if err := parseQuery(query, o.query); err != nil {
		return nil, nil, err
	}
	as, err := parseAs(o.as)
	if err != nil {
		return nil, nil, err
	}

	opts := &mande.Options{
		Headers:    headers,
		Query:      query,
		ResponseAs: as,
	}
	if !withBody {
		return opts, nil, nil
	}

	set := 0
	for _, given := range []bool{o.data != "", o.jsonData != "", len(o.form) > 0} {
		if given {
			set++
		}
	}
	if set > 1 {
		return nil, nil, fmt.Errorf("only one of --data, --json and --form can be used")
	}

	var data any
	switch {
	case o.data != "":
		opts.Body = o.data
	case o.jsonData != "":
		if err := json.Unmarshal([]byte(o.jsonData), &data); err != nil {
			return nil, nil, fmt.Errorf("invalid --json: %w", err)
		}
	case len(o.form) > 0:
		form, err := parseForm(o.form)
		if err != nil {
			return nil, nil, err
		}
		data = form
	}
	return opts, data, nil
}

// loadProfile loads the config file, if any, and resolves the environment.
func loadProfile(root *rootOptions) (*config.File, config.Profile, error) {
	if root.configPath == "" {
		if root.env != "" {
			return nil, config.Profile{}, fmt.Errorf("--env needs --config")
		}
		return nil, config.Profile{}, nil
	}

	file, err := config.Load(root.configPath)
	if err != nil {
		return nil, config.Profile{}, err
	}
	profile, err := file.Resolve(root.env)
	if err != nil {
		return nil, config.Profile{}, err
	}
	return file, profile, nil
}

// loadSchema reads a schema file, falling back to a schema named in the
// config file.
func loadSchema(file *config.File, ref string) (*jsonschema.Schema, error) {
	if data, err := os.ReadFile(ref); err == nil {
		return jsonschema.Compile(data)
	}
	if file != nil {
		if s, ok := file.Schema(ref); ok {
			return jsonschema.Compile(s)
		}
	}
	return nil, fmt.Errorf("schema not found: %s", ref)
}

// responseMode is the mode the dispatcher decoded with.
func responseMode(call *mande.Options, profile config.Profile) mande.ResponseAs {
	switch {
	case call.ResponseAs != "":
		return call.ResponseAs
	case profile.ResponseAs != "":
		return profile.ResponseAs
	case mande.Defaults.ResponseAs != "":
		return mande.Defaults.ResponseAs
	}
	return mande.ResponseJSON
}

// extract applies the JSONPaths. Text results are read as JSON documents.
func extract(value any, mode mande.ResponseAs, paths []string) ([]string, error) {
	s, isText := value.(string)
	if !isText || mode != mande.ResponseText {
		return jsonpath.ExtractAll(value, paths)
	}

	results := make([]string, len(paths))
	for i, path := range paths {
		v, err := jsonpath.Extract(s, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		results[i] = v
	}
	return results, nil
}
