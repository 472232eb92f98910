// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"crypto/tls"
	"encoding/base64"
	"flag"
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/rule.run/api"
	_ "github.com/karmarun/rule.run/codec/json"
	"github.com/karmarun/rule.run/config"
	"github.com/karmarun/rule.run/db"
	"github.com/karmarun/rule.run/definitions"
	"github.com/karmarun/rule.run/rvm"
	"golang.org/x/crypto/acme/autocert"
	"log"
	"net/http"
	"os"
	"strings"
)

const minSecretBytes = 64

func main() {

	flag.Parse()

	{
		secret, e := base64.StdEncoding.DecodeString(config.InstanceSecret)
		if e != nil {
			log.Fatalln("instance secret must be base64-encoded (see --help)")
		}
		if len(secret) < minSecretBytes {
			log.Fatalf("decoded instance secret must be at least %d bytes long\n", minSecretBytes)
		}
	}

	{ // publish environment
		if e := os.Setenv(`INSTANCE_SECRET`, config.InstanceSecret); e != nil {
			log.Fatalln(e)
		}
		if e := os.Setenv(`DATA_FILE`, config.DataFile); e != nil {
			log.Fatalln(e)
		}
	}

	{ // init database if necessary

		db, e := db.Open()
		if e != nil {
			log.Fatalln(e)
		}
		e = db.Update(func(tx *bolt.Tx) error {
			if tx.Bucket(definitions.RootBucketBytes) != nil {
				log.Println("data file already initialized")
				return nil
			}
			log.Println("initializing data file...")
			rb, e := tx.CreateBucket(definitions.RootBucketBytes)
			if e != nil {
				return e
			}
			if e := (&rvm.VirtualMachine{RootBucket: rb}).InitDB(); e != nil {
				return e
			}
			log.Println("initialized data file")
			return nil
		})
		if e != nil {
			log.Fatalln(e)
		}
	}

	log.Println("starting rule.run...")
	log.Println("HTTP port:", config.HttpPort)

	httpServer, httpsServer := (*http.Server)(nil), (*http.Server)(nil)

	httpServer = &http.Server{
		Addr:    ":" + config.HttpPort,
		Handler: http.HandlerFunc(api.HttpHandler),
	}

	httpsRedirectionHandler := http.HandlerFunc(func(rw http.ResponseWriter, rq *http.Request) {
		u := rq.URL
		u.Scheme = "https"
		u.Host = rq.Host
		http.Redirect(rw, rq, u.String(), http.StatusMovedPermanently)
	})

	httpsCertFile, httpsKeyFile := config.HttpsCertFile, config.HttpsKeyFile

	{ // LetsEncrypt support
		if (len(config.LetsencryptDomains) > 0 && len(config.LetsencryptEmail) == 0) || (len(config.LetsencryptDomains) == 0 && len(config.LetsencryptEmail) > 0) {
			log.Fatalln("--letsencrypt-email and --letsencrypt-domains must be set together.")
		}

		if len(config.LetsencryptDomains) > 0 {
			domains := strings.Split(config.LetsencryptDomains, ",")
			cacheDir := config.LetsencryptCacheDir
			if len(cacheDir) == 0 {
				cacheDir = `dbs/autocert-cache`
			}
			log.Println("HTTPS port:", config.HttpsPort)
			log.Println("LetsEncrypt domains:", domains)
			log.Println("LetsEncrypt email:", config.LetsencryptEmail)
			m := autocert.Manager{
				Prompt:     autocert.AcceptTOS,
				Cache:      (autocert.DirCache)(cacheDir),
				HostPolicy: autocert.HostWhitelist(domains...),
				Email:      config.LetsencryptEmail,
			}
			httpsServer = &http.Server{
				Addr:      ":" + config.HttpsPort,
				Handler:   http.HandlerFunc(api.HttpHandler),
				TLSConfig: &tls.Config{GetCertificate: m.GetCertificate},
			}
			httpServer.Handler = httpsRedirectionHandler
			httpsCertFile, httpsKeyFile = ``, ``
		}
	}

	{ // Own TLS config support
		if (len(httpsCertFile) > 0 && len(httpsKeyFile) == 0) || (len(httpsCertFile) == 0 && len(httpsKeyFile) > 0) {
			log.Fatalln("--https-cert-file and --https-key-file must be set together.")
		}

		if len(httpsCertFile) > 0 {
			httpsServer = &http.Server{
				Addr:    ":" + config.HttpsPort,
				Handler: http.HandlerFunc(api.HttpHandler),
			}
			httpServer.Handler = httpsRedirectionHandler
		}
	}

	go func() {
		if e := httpServer.ListenAndServe(); e != http.ErrServerClosed {
			log.Fatalln("HTTP", e.Error())
		}
	}()
	log.Println("HTTP server started")

	if httpsServer != nil {
		go func() {
			if e := httpsServer.ListenAndServeTLS(httpsCertFile, httpsKeyFile); e != http.ErrServerClosed {
				log.Fatalln("HTTPS", e.Error())
			}
		}()
		log.Println("HTTPS server started")
	}

	select {}

}
