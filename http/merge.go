package http

// request is the per-call snapshot taken while building. Nothing in it
// aliases Defaults or instance options.
type request struct {
	method     string
	url        string
	headers    map[string]string
	responseAs ResponseAs
	stringify  StringifyFunc
	body       any
	into       any
	onSuccess  SuccessHook
	onError    ErrorHook
}

const (
	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
)

// builtinHeaders is the lowest header layer.
func builtinHeaders(multipart bool) Headers {
	h := Headers{headerAccept: Value(mimeJSON)}
	if multipart {
		// Let the transport set a Content-Type with the multipart boundary.
		h[headerContentType] = Remove()
	} else {
		h[headerContentType] = Value(mimeJSON)
	}
	return h
}

// mergeOptions layers global, instance and call options over the built-in
// defaults. verb is applied after the instance layer, so only the call layer
// can override it.
func mergeOptions(verb string, multipart bool, global, instance, call *Options) *request {
	r := &request{
		method:     verb,
		responseAs: ResponseJSON,
		stringify:  jsonStringify,
	}

	layers := [...]*Options{global, instance, call}
	for i, o := range layers {
		if o == nil {
			continue
		}
		if o.ResponseAs != "" {
			r.responseAs = o.ResponseAs
		}
		if o.Stringify != nil {
			r.stringify = o.Stringify
		}
		if o.Body != nil {
			r.body = o.Body
		}
		if i == len(layers)-1 {
			if o.Method != "" {
				r.method = o.Method
			}
			r.into = o.Into
		}
	}

	if call != nil && call.OnSuccess != nil {
		r.onSuccess = call.OnSuccess
	} else if instance != nil {
		r.onSuccess = instance.OnSuccess
	}
	if call != nil && call.OnError != nil {
		r.onError = call.OnError
	} else if instance != nil {
		r.onError = instance.OnError
	}

	r.headers = mergeHeaders(builtinHeaders(multipart), global, instance, call)
	return r
}

// layeredBody returns the prebuilt body of the highest layer that sets one.
func layeredBody(layers ...*Options) any {
	var body any
	for _, o := range layers {
		if o != nil && o.Body != nil {
			body = o.Body
		}
	}
	return body
}

// mergeHeaders applies each layer key by key and drops removed keys.
func mergeHeaders(base Headers, layers ...*Options) map[string]string {
	merged := make(Headers, len(base))
	for k, v := range base {
		merged[CanonicalKey(k)] = v
	}
	for _, o := range layers {
		if o == nil {
			continue
		}
		for k, v := range o.Headers {
			merged[CanonicalKey(k)] = v
		}
	}

	out := make(map[string]string, len(merged))
	for k, v := range merged {
		if v.remove {
			continue
		}
		out[k] = v.value
	}
	return out
}

// mergeQuery returns a fresh Query holding every layer's pairs.
func mergeQuery(layers ...*Options) *Query {
	q := &Query{}
	for _, o := range layers {
		if o == nil {
			continue
		}
		q.merge(o.Query)
	}
	return q
}
