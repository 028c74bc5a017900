package help

const ColdstartYAML = `# m8pack Quick Start

what_it_does: |
  Rewrites an HTML document with short numeric tag codes and attribute
  aliases, then wraps it in a page whose script restores and renders the
  original at load time.

commands:
  compress: |
    m8pack compress page.html page.m8.html
    m8pack compress --max-mappings 20 --verify page.html page.m8.html
    cat page.html | m8pack compress - - > page.m8.html

  dry_run: |
    m8pack analyze "site/*.html"

  check_round_trip: |
    m8pack verify page.html
    m8pack verify page.html page.m8.html

  unpack: |
    m8pack unpack page.m8.html restored.html

  history: |
    m8pack history
    m8pack history show
    m8pack history prune --older-than 720h

  http_api: |
    m8pack serve --addr :8080
    curl --data-binary @page.html localhost:8080/v1/compress > page.m8.html
    curl --data-binary @page.m8.html localhost:8080/v1/unpack

config_file: |
  # m8pack.yaml, passed with --config
  max_mappings: 50
  scanner: pattern      # pattern | strict
  verify: false
  history_db: ""        # empty: m8pack.db next to the binary
  report_format: text   # text | yaml
  top_tags: 10

caveats:
  - "Whitespace between > and < is removed."
  - "Tag names are lower-cased."
  - "An attribute literally named like an alias code (c, i, s, ...) is expanded on decode; analyze lists these hazards."
`
