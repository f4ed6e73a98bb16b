/*
Package config loads nftstore configuration.

Values are layered: Defaults(), then an optional YAML file, then a .env file in
the working directory, then environment variables. The DynamoDB variables use
the same names as the rest of the suparena tooling:

	AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_REGION, AWS_DDB_TABLE, AWS_DDB_ENDPOINT

A minimal file:

	backend:
	  driver: leveldb
	  path: /var/lib/nftstore
	contract:
	  owner: alice
	deposit:
	  minimum: "0.001"
	cache:
	  enabled: true
	  expiration: 10m
*/
package config
