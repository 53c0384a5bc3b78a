// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/packetd/multipart"
	"github.com/packetd/multipart/common"
	"github.com/packetd/multipart/internal/json"
	"github.com/packetd/multipart/internal/zerocopy"
)

type parseCmdConfig struct {
	Boundary string
	Charset  string
}

var parseConfig parseCmdConfig

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse multipart/form-data files and print their events as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		if parseConfig.Boundary == "" {
			fmt.Fprintln(os.Stderr, "error: --boundary is required")
			os.Exit(1)
		}

		if len(args) == 0 {
			args = []string{"-"}
		}

		buffers := make([]bytes.Buffer, len(args))
		errs := make([]error, len(args))

		// Files parse independently, so fan them out across a worker
		// pool sized to the host rather than one goroutine per file.
		// "-" (stdin) is scheduled like any other argument.
		sem := make(chan struct{}, common.Concurrency())
		var wg sync.WaitGroup
		for i, name := range args {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, name string) {
				defer wg.Done()
				defer func() { <-sem }()
				errs[i] = parseFile(name, json.NewEncoder(&buffers[i]))
			}(i, name)
		}
		wg.Wait()

		var result error
		for i, name := range args {
			os.Stdout.Write(buffers[i].Bytes())
			if errs[i] != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", name, errs[i]))
			}
		}
		if result != nil {
			fmt.Fprintln(os.Stderr, result)
			os.Exit(1)
		}
	},
	Example: "# multipartd parse --boundary X-BOUNDARY upload.bin",
}

func init() {
	parseCmd.Flags().StringVar(&parseConfig.Boundary, "boundary", "", "multipart boundary token, without the leading '--'")
	parseCmd.Flags().StringVar(&parseConfig.Charset, "charset", multipart.DefaultCharset, "charset used to decode header values")
	rootCmd.AddCommand(parseCmd)
}

type parseEvent struct {
	Kind string     `json:"kind"`
	Part *partEvent `json:"part,omitempty"`
	Data *dataEvent `json:"data,omitempty"`
}

type partEvent struct {
	Seq         int    `json:"seq"`
	Name        string `json:"name"`
	FileName    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type dataEvent struct {
	Seq   int  `json:"seq"`
	Bytes int  `json:"bytes"`
	Final bool `json:"final"`
}

func parseFile(name string, enc interface{ Encode(any) error }) error {
	var content []byte
	var err error
	if name == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(name)
	}
	if err != nil {
		return err
	}

	rd := zerocopy.NewBuffer(content)
	return multipart.WithSession([]byte(parseConfig.Boundary), parseConfig.Charset, func(p *multipart.Parser) error {
		for {
			chunk, rerr := rd.Read(common.ReadBlockSize)
			if len(chunk) > 0 {
				p.Feed(chunk)
			}
			for {
				ev, everr := p.Next()
				if everr != nil {
					return everr
				}
				if err := emit(enc, ev); err != nil {
					return err
				}
				if ev.Kind == multipart.EventFinished {
					return nil
				}
				if ev.Kind == multipart.EventNeedData {
					break
				}
			}
			if rerr != nil {
				if rerr == io.EOF {
					return nil
				}
				return rerr
			}
		}
	})
}

func emit(enc interface{ Encode(any) error }, ev multipart.Event) error {
	out := parseEvent{Kind: ev.Kind.String()}
	if ev.Part != nil {
		out.Part = &partEvent{
			Seq:         ev.Part.Seq,
			Name:        ev.Part.Name,
			FileName:    ev.Part.FileName,
			ContentType: ev.Part.ContentType,
		}
	}
	if ev.PartData != nil {
		out.Data = &dataEvent{
			Seq:   ev.PartData.Seq,
			Bytes: len(ev.PartData.Data),
			Final: ev.PartData.Final,
		}
	}
	return enc.Encode(out)
}
